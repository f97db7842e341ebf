package repository

import (
	"context"

	"worksync/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByTitle(ctx context.Context, title string) (*model.Product, error)
	FindByTitleForUpdate(ctx context.Context, title string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	AdjustStock(ctx context.Context, id uint, delta int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByTitle(ctx context.Context, title string) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Where("title = ?", title).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByTitleForUpdate(ctx context.Context, title string) (*model.Product, error) {
	var product model.Product
	if err := lockedDB(ctx, r.db).
		Where("title = ?", title).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns the whole catalog ordered by title.
func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0)
	if err := GetDB(ctx, r.db).Order("title asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// AdjustStock adds delta to the stock in a single UPDATE.
func (r *productRepository) AdjustStock(ctx context.Context, id uint, delta int) error {
	res := GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
