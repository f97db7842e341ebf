package repository

import (
	"context"

	"worksync/internal/model"

	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	Update(ctx context.Context, req *model.Request) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Request, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Request, error)
	List(ctx context.Context) ([]model.Request, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Request, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) Update(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Request{}).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Request, error) {
	var req model.Request
	if err := lockedDB(ctx, r.db).
		Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns every request, newest first.
func (r *requestRepository) List(ctx context.Context) ([]model.Request, error) {
	requests := make([]model.Request, 0)
	if err := GetDB(ctx, r.db).Order("created_at desc, id desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID uint) ([]model.Request, error) {
	requests := make([]model.Request, 0)
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).
		Order("created_at desc, id desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
