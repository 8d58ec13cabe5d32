package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/model"
	"github.com/warklp/saasBarber-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LowStockNotifier delivers out-of-band low-stock alerts. Delivery is
// best-effort: a failed notification never fails the movement that caused it.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, product *model.Product) error
}

type StockService interface {
	RecordMovement(ctx context.Context, principal Principal, req dto.RecordMovementRequest) (*dto.StockMovementResponse, error)
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]dto.StockMovementResponse, int64, error)
	ListAlerts(ctx context.Context) ([]dto.StockAlertResponse, error)
}

type stockService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	audit     repository.AuditRepository
	notifier  LowStockNotifier
}

func NewStockService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	audit repository.AuditRepository,
	notifier LowStockNotifier,
) StockService {
	return &stockService{products: products, movements: movements, audit: audit, notifier: notifier}
}

// movementDelta derives the signed stock delta from the movement type.
// Purchase, return and adjustment keep the caller's sign (adjustment may go
// either way); sale and loss always subtract, whatever sign arrived.
func movementDelta(movementType string, quantity int) int {
	switch movementType {
	case model.MovementSale, model.MovementLoss:
		if quantity < 0 {
			return quantity
		}
		return -quantity
	default:
		return quantity
	}
}

func (s *stockService) RecordMovement(ctx context.Context, principal Principal, req dto.RecordMovementRequest) (*dto.StockMovementResponse, error) {
	if !principal.isStaff() {
		return nil, apierror.Forbidden("only admin or cashier may record stock movements")
	}
	if req.Quantity == 0 {
		return nil, apierror.Validation("quantity must not be zero")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("product_id is not a valid UUID")
	}

	delta := movementDelta(req.MovementType, req.Quantity)
	// Only adjustments may leave stock negative (physical-count corrections).
	allowNegative := req.MovementType == model.MovementAdjustment

	var movement *model.StockMovement
	var product *model.Product

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindByIDTx(tx, productID)
		if err != nil {
			return err
		}

		newStock := p.StockQuantity + delta
		if newStock < 0 && !allowNegative {
			return apierror.Validation(fmt.Sprintf(
				"insufficient stock: %d available, movement requires %d", p.StockQuantity, -delta))
		}

		rows, err := s.products.ApplyStockDeltaTx(tx, productID, delta, allowNegative)
		if err != nil {
			return err
		}
		if rows == 0 {
			// A concurrent movement consumed the stock between the read and
			// the guarded update.
			return apierror.Validation("insufficient stock for this movement")
		}

		movement = &model.StockMovement{
			ProductID:    productID,
			Quantity:     delta,
			MovementType: req.MovementType,
			StockBefore:  p.StockQuantity,
			StockAfter:   newStock,
			Notes:        req.Notes,
		}
		if req.ReferenceID != nil {
			refID, parseErr := uuid.Parse(*req.ReferenceID)
			if parseErr != nil {
				return apierror.Validation("reference_id is not a valid UUID")
			}
			movement.ReferenceID = &refID
		}
		if err := s.movements.CreateTx(tx, movement); err != nil {
			return err
		}

		p.StockQuantity = newStock
		product = p
		return nil
	})
	if txErr != nil {
		var apiErr *apierror.Error
		if errors.As(txErr, &apiErr) {
			return nil, apiErr
		}
		return nil, notFoundOr(txErr, "product not found")
	}

	if product.StockQuantity < product.StockMinimum {
		s.raiseLowStockAlert(ctx, product)
	}

	return toMovementResponse(movement), nil
}

// raiseLowStockAlert records the audit trail entry and pushes the alert to
// the notifier. Both are secondary effects of an already-committed movement,
// so failures are logged and swallowed.
func (s *stockService) raiseLowStockAlert(ctx context.Context, product *model.Product) {
	entityID := product.ID
	entry := &model.AuditLog{
		Event:    model.AuditLowStock,
		Entity:   "product",
		EntityID: &entityID,
		Message: fmt.Sprintf("%s is below minimum stock (%d < %d)",
			product.Name, product.StockQuantity, product.StockMinimum),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("product_id", product.ID.String()).
			Msg("stock: low-stock audit entry failed")
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyLowStock(ctx, product); err != nil {
		log.Warn().Err(err).Str("product_id", product.ID.String()).
			Msg("stock: low-stock notification failed")
	}
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]dto.StockMovementResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Database(err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, *toMovementResponse(&movements[i]))
	}
	return out, total, nil
}

func (s *stockService) ListAlerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	products, err := s.products.ListBelowMinimum(ctx)
	if err != nil {
		return nil, apierror.Database(err)
	}
	out := make([]dto.StockAlertResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.StockAlertResponse{
			ProductID:     p.ID.String(),
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			StockMinimum:  p.StockMinimum,
		})
	}
	return out, nil
}

func toMovementResponse(m *model.StockMovement) *dto.StockMovementResponse {
	resp := &dto.StockMovementResponse{
		ID:           m.ID.String(),
		ProductID:    m.ProductID.String(),
		Quantity:     m.Quantity,
		MovementType: m.MovementType,
		StockBefore:  m.StockBefore,
		StockAfter:   m.StockAfter,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.ReferenceID != nil {
		id := m.ReferenceID.String()
		resp.ReferenceID = &id
	}
	return resp
}
