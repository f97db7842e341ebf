package repository

import (
	"context"

	"worksync/internal/model"

	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Update(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

// APIKeyRepository stores at most one key per user.
type APIKeyRepository interface {
	Replace(ctx context.Context, key *model.APIKey) error
	GetByUser(ctx context.Context, userID uint) (*model.APIKey, error)
	GetByKey(ctx context.Context, key string) (*model.APIKey, error)
	DeleteByUser(ctx context.Context, userID uint) (bool, error)
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

// Replace drops the user's current key, if any, and stores key.
func (r *apiKeyRepository) Replace(ctx context.Context, key *model.APIKey) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("user_id = ?", key.UserID).Delete(&model.APIKey{}).Error; err != nil {
		return err
	}
	return db.Create(key).Error
}

func (r *apiKeyRepository) GetByUser(ctx context.Context, userID uint) (*model.APIKey, error) {
	var key model.APIKey
	if err := GetDB(ctx, r.db).First(&key, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// GetByKey loads the key together with its owner.
func (r *apiKeyRepository) GetByKey(ctx context.Context, key string) (*model.APIKey, error) {
	var k model.APIKey
	if err := GetDB(ctx, r.db).Preload("User").First(&k, "api_key = ?", key).Error; err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *apiKeyRepository) DeleteByUser(ctx context.Context, userID uint) (bool, error) {
	res := GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.APIKey{})
	return res.RowsAffected > 0, res.Error
}
