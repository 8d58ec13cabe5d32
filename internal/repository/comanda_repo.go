package repository

import (
	"context"
	"time"

	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ComandaRepository is the data access contract for comandas and their items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ComandaRepository interface {
	Create(ctx context.Context, c *model.Comanda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comanda, error)
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*model.Comanda, error)
	List(ctx context.Context, filter dto.ComandaFilter) ([]model.Comanda, int64, error)

	FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.ComandaItem, error)

	// Used inside transactions — callers must pass the tx instance.
	CreateItemTx(tx *gorm.DB, item *model.ComandaItem) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	SumItemsTx(tx *gorm.DB, comandaID uuid.UUID) (decimal.Decimal, error)
	UpdateTotalTx(tx *gorm.DB, comandaID uuid.UUID, total decimal.Decimal) error

	// CloseIfOpen performs the atomic open→closed transition. Returns false
	// when the comanda was not open (concurrent close or already terminal).
	CloseIfOpen(ctx context.Context, id uuid.UUID, paymentMethod string, finalTotal decimal.Decimal, cashierID uuid.UUID, closedAt time.Time) (bool, error)
	// CancelIfOpen performs the atomic open→canceled transition.
	CancelIfOpen(ctx context.Context, id uuid.UUID) (bool, error)

	// Commission writes, used by the calculator worker and the close-time
	// fallback. Totals are always full overwrites, never increments.
	UpdateCommissionTotals(ctx context.Context, id uuid.UUID, services, products, total decimal.Decimal) error
	UpdateItemCommission(ctx context.Context, itemID uuid.UUID, value, percentage decimal.Decimal) error

	// ListClosedMissingCommission feeds the eventual-consistency repair cron:
	// comandas closed before the cutoff whose commission totals are still zero.
	ListClosedMissingCommission(ctx context.Context, closedBefore time.Time, limit int) ([]model.Comanda, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type comandaRepo struct{ db *gorm.DB }

func NewComandaRepository(db *gorm.DB) ComandaRepository { return &comandaRepo{db: db} }

func (r *comandaRepo) Create(ctx context.Context, c *model.Comanda) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *comandaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comanda, error) {
	var c model.Comanda
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Service").
		Preload("Items.Product").
		Preload("Appointment").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *comandaRepo) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*model.Comanda, error) {
	var c model.Comanda
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Appointment").
		First(&c, "appointment_id = ?", appointmentID).Error
	return &c, err
}

func (r *comandaRepo) List(ctx context.Context, filter dto.ComandaFilter) ([]model.Comanda, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Comanda{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var comandas []model.Comanda
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&comandas).Error
	return comandas, total, err
}

func (r *comandaRepo) FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.ComandaItem, error) {
	var item model.ComandaItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error
	return &item, err
}

func (r *comandaRepo) CreateItemTx(tx *gorm.DB, item *model.ComandaItem) error {
	return tx.Create(item).Error
}

func (r *comandaRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.ComandaItem{}, "id = ?", itemID).Error
}

func (r *comandaRepo) SumItemsTx(tx *gorm.DB, comandaID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := tx.Model(&model.ComandaItem{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("comanda_id = ?", comandaID).
		Scan(&sum).Error
	return sum, err
}

func (r *comandaRepo) UpdateTotalTx(tx *gorm.DB, comandaID uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Comanda{}).Where("id = ?", comandaID).
		Update("total", total).Error
}

func (r *comandaRepo) CloseIfOpen(ctx context.Context, id uuid.UUID, paymentMethod string, finalTotal decimal.Decimal, cashierID uuid.UUID, closedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Comanda{}).
		Where("id = ? AND status = ?", id, model.ComandaOpen).
		Updates(map[string]interface{}{
			"status":         model.ComandaClosed,
			"payment_method": paymentMethod,
			"final_total":    finalTotal,
			"cashier_id":     cashierID,
			"closed_at":      closedAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *comandaRepo) CancelIfOpen(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Comanda{}).
		Where("id = ? AND status = ?", id, model.ComandaOpen).
		Update("status", model.ComandaCanceled)
	return res.RowsAffected > 0, res.Error
}

func (r *comandaRepo) UpdateCommissionTotals(ctx context.Context, id uuid.UUID, services, products, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Comanda{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_services_commission": services,
			"total_products_commission": products,
			"total_commission":          total,
		}).Error
}

func (r *comandaRepo) UpdateItemCommission(ctx context.Context, itemID uuid.UUID, value, percentage decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.ComandaItem{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"commission_value":      value,
			"commission_percentage": percentage,
		}).Error
}

func (r *comandaRepo) ListClosedMissingCommission(ctx context.Context, closedBefore time.Time, limit int) ([]model.Comanda, error) {
	var comandas []model.Comanda
	err := r.db.WithContext(ctx).
		Where("status = ? AND total_commission = 0 AND closed_at < ?", model.ComandaClosed, closedBefore).
		Order("closed_at ASC").
		Limit(limit).
		Find(&comandas).Error
	return comandas, err
}

func (r *comandaRepo) DB() *gorm.DB { return r.db }
