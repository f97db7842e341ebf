package repository

import (
	"context"

	"worksync/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows an audit listing. Empty fields match everything.
type AuditFilter struct {
	EntityType string
	EntityID   string
	Action     string
	UserID     uint
}

func (f AuditFilter) apply(db *gorm.DB) *gorm.DB {
	if f.EntityType != "" {
		db = db.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		db = db.Where("entity_id = ?", f.EntityID)
	}
	if f.Action != "" {
		db = db.Where("action = ?", f.Action)
	}
	if f.UserID != 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	return db
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Log joins the caller's transaction so an entry is only kept when the change it describes commits.
func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	logs := make([]model.AuditLog, 0)
	var total int64

	if err := filter.apply(GetDB(ctx, r.db).Model(&model.AuditLog{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return logs, 0, nil
	}

	err := filter.apply(GetDB(ctx, r.db)).
		Preload("User").
		Order("created_at desc, id desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
