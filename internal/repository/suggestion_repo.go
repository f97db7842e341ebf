package repository

import (
	"context"

	"worksync/internal/model"

	"gorm.io/gorm"
)

type SuggestionRepository interface {
	Create(ctx context.Context, s *model.Suggestion) error
	Update(ctx context.Context, s *model.Suggestion) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Suggestion, error)
	List(ctx context.Context) ([]model.Suggestion, error)
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) Create(ctx context.Context, s *model.Suggestion) error {
	return GetDB(ctx, r.db).Create(s).Error
}

func (r *suggestionRepository) Update(ctx context.Context, s *model.Suggestion) error {
	return GetDB(ctx, r.db).Save(s).Error
}

func (r *suggestionRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Suggestion{}).Error
}

func (r *suggestionRepository) FindByID(ctx context.Context, id uint) (*model.Suggestion, error) {
	var s model.Suggestion
	if err := GetDB(ctx, r.db).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *suggestionRepository) List(ctx context.Context) ([]model.Suggestion, error) {
	suggestions := make([]model.Suggestion, 0)
	if err := GetDB(ctx, r.db).Order("created_at desc, id desc").Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}
