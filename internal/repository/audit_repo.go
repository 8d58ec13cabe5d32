package repository

import (
	"context"

	"github.com/warklp/saasBarber-sub001/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListByEvent(ctx context.Context, event string, limit int) ([]model.AuditLog, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) ListByEvent(ctx context.Context, event string, limit int) ([]model.AuditLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("event = ?", event).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
