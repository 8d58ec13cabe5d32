package repository

import (
	"context"

	"github.com/warklp/saasBarber-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommissionRepository persists the per-item commission details produced by
// the calculator worker. DeleteByComandaID exists so Recompute is idempotent:
// it wipes and recreates the comanda's details in one pass.
type CommissionRepository interface {
	Create(ctx context.Context, d *model.CommissionDetail) error
	ListByComandaID(ctx context.Context, comandaID uuid.UUID) ([]model.CommissionDetail, error)
	DeleteByComandaID(ctx context.Context, comandaID uuid.UUID) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, status string) ([]model.CommissionDetail, error)
}

type commissionRepo struct{ db *gorm.DB }

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepo{db: db}
}

func (r *commissionRepo) Create(ctx context.Context, d *model.CommissionDetail) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *commissionRepo) ListByComandaID(ctx context.Context, comandaID uuid.UUID) ([]model.CommissionDetail, error) {
	var details []model.CommissionDetail
	err := r.db.WithContext(ctx).
		Where("comanda_item_id IN (?)",
			r.db.Model(&model.ComandaItem{}).Select("id").Where("comanda_id = ?", comandaID)).
		Find(&details).Error
	return details, err
}

func (r *commissionRepo) DeleteByComandaID(ctx context.Context, comandaID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("comanda_item_id IN (?)",
			r.db.Model(&model.ComandaItem{}).Select("id").Where("comanda_id = ?", comandaID)).
		Delete(&model.CommissionDetail{}).Error
}

func (r *commissionRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID, status string) ([]model.CommissionDetail, error) {
	q := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var details []model.CommissionDetail
	err := q.Order("created_at DESC").Find(&details).Error
	return details, err
}
