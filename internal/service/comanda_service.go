package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/commission"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/model"
	"github.com/warklp/saasBarber-sub001/internal/payment"
	"github.com/warklp/saasBarber-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionCalculator is the external commission-calculation service. It is
// asynchronous: Calculate only triggers the computation, whose results land
// on the comanda and its items eventually. Recompute is idempotent and safe
// to invoke repeatedly — it is the retry entry point for the
// eventual-consistency repair described in Close.
type CommissionCalculator interface {
	Calculate(ctx context.Context, comandaID uuid.UUID) error
	Recompute(ctx context.Context, comandaID uuid.UUID) error
}

type ComandaService interface {
	Open(ctx context.Context, principal Principal, req dto.OpenComandaRequest) (*dto.ComandaResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ComandaResponse, error)
	List(ctx context.Context, filter dto.ComandaFilter) ([]dto.ComandaResponse, int64, error)
	AddItem(ctx context.Context, principal Principal, comandaID uuid.UUID, req dto.AddItemRequest) (*dto.ComandaResponse, error)
	RemoveItem(ctx context.Context, principal Principal, comandaID, itemID uuid.UUID) (*dto.ComandaResponse, error)
	Close(ctx context.Context, principal Principal, comandaID uuid.UUID, req dto.CloseComandaRequest) (*dto.ComandaResponse, error)
	Cancel(ctx context.Context, principal Principal, comandaID uuid.UUID) (*dto.ComandaResponse, error)
}

type comandaService struct {
	repo         repository.ComandaRepository
	appointments repository.AppointmentRepository
	services     repository.ServiceRepository
	products     repository.ProductRepository
	calculator   CommissionCalculator
	// commissionWait bounds how long Close waits for the async calculator
	// before re-reading (and once more after Recompute). Zero in unit tests.
	commissionWait time.Duration
}

func NewComandaService(
	repo repository.ComandaRepository,
	appointments repository.AppointmentRepository,
	services repository.ServiceRepository,
	products repository.ProductRepository,
	calculator CommissionCalculator,
	commissionWait time.Duration,
) ComandaService {
	return &comandaService{
		repo:           repo,
		appointments:   appointments,
		services:       services,
		products:       products,
		calculator:     calculator,
		commissionWait: commissionWait,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notFoundOr maps a repository error to NOT_FOUND when the record is simply
// missing, or DATABASE_ERROR otherwise.
func notFoundOr(err error, msg string) *apierror.Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(msg)
	}
	return apierror.Database(err)
}

// finalTotal computes round(total − discount + taxes, 2) clamped to ≥ 0.
func finalTotal(total, discount, taxes decimal.Decimal) decimal.Decimal {
	result := total.Sub(discount).Add(taxes).Round(2)
	if result.IsNegative() {
		return decimal.Zero
	}
	return result
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *comandaService) Open(ctx context.Context, principal Principal, req dto.OpenComandaRequest) (*dto.ComandaResponse, error) {
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, apierror.Validation("appointment_id is not a valid UUID")
	}

	appointment, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, notFoundOr(err, "appointment not found")
	}
	if permErr := principal.canMutateComanda(appointment.BarberID); permErr != nil {
		return nil, permErr
	}

	// One comanda per appointment, enforced at creation (plus the unique
	// index as the concurrent-create backstop).
	if _, err := s.repo.FindByAppointmentID(ctx, appointmentID); err == nil {
		return nil, apierror.Conflict("a comanda already exists for this appointment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Database(err)
	}

	comanda := &model.Comanda{
		AppointmentID: appointmentID,
		ClientID:      appointment.ClientID,
		Status:        model.ComandaOpen,
		Discount:      req.Discount.Round(2),
		Taxes:         req.Taxes.Round(2),
	}
	if err := s.repo.Create(ctx, comanda); err != nil {
		return nil, apierror.Database(err)
	}
	return toComandaResponse(comanda), nil
}

// ── Item ledger ──────────────────────────────────────────────────────────────

func (s *comandaService) AddItem(ctx context.Context, principal Principal, comandaID uuid.UUID, req dto.AddItemRequest) (*dto.ComandaResponse, error) {
	if (req.ServiceID == nil) == (req.ProductID == nil) {
		return nil, apierror.Validation("item must reference exactly one of service_id or product_id")
	}
	if req.Quantity <= 0 {
		return nil, apierror.Validation("quantity must be greater than zero")
	}
	if req.UnitPrice.IsNegative() {
		return nil, apierror.Validation("unit_price must not be negative")
	}

	if _, err := s.loadOpenComanda(ctx, principal, comandaID); err != nil {
		return nil, err
	}

	item := &model.ComandaItem{
		ComandaID:  comandaID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice.Round(2),
		TotalPrice: req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
	}

	if req.ServiceID != nil {
		serviceID, parseErr := uuid.Parse(*req.ServiceID)
		if parseErr != nil {
			return nil, apierror.Validation("service_id is not a valid UUID")
		}
		if _, findErr := s.services.FindByID(ctx, serviceID); findErr != nil {
			return nil, notFoundOr(findErr, "service not found")
		}
		item.ServiceID = &serviceID
	} else {
		productID, parseErr := uuid.Parse(*req.ProductID)
		if parseErr != nil {
			return nil, apierror.Validation("product_id is not a valid UUID")
		}
		if _, findErr := s.products.FindByID(ctx, productID); findErr != nil {
			return nil, notFoundOr(findErr, "product not found")
		}
		item.ProductID = &productID
	}

	// Insert + full total recompute in one transaction. The total is always
	// re-derived from the item set, never incremented, so a retried or
	// partially failed request can never leave drift behind.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateItemTx(tx, item); err != nil {
			return err
		}
		return s.recomputeTotalTx(tx, comandaID)
	})
	if txErr != nil {
		return nil, apierror.Database(txErr)
	}

	return s.Get(ctx, comandaID)
}

func (s *comandaService) RemoveItem(ctx context.Context, principal Principal, comandaID, itemID uuid.UUID) (*dto.ComandaResponse, error) {
	if _, err := s.loadOpenComanda(ctx, principal, comandaID); err != nil {
		return nil, err
	}

	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil || item.ComandaID != comandaID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Database(err)
		}
		return nil, apierror.NotFound("item not found on this comanda")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteItemTx(tx, itemID); err != nil {
			return err
		}
		return s.recomputeTotalTx(tx, comandaID)
	})
	if txErr != nil {
		return nil, apierror.Database(txErr)
	}

	return s.Get(ctx, comandaID)
}

// recomputeTotalTx derives the comanda total from the authoritative item set.
func (s *comandaService) recomputeTotalTx(tx *gorm.DB, comandaID uuid.UUID) error {
	sum, err := s.repo.SumItemsTx(tx, comandaID)
	if err != nil {
		return err
	}
	return s.repo.UpdateTotalTx(tx, comandaID, sum.Round(2))
}

// loadOpenComanda fetches the comanda, rejects terminal states, and enforces
// the mutation permission against the appointment's assigned barber.
func (s *comandaService) loadOpenComanda(ctx context.Context, principal Principal, comandaID uuid.UUID) (*model.Comanda, error) {
	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err != nil {
		return nil, notFoundOr(err, "comanda not found")
	}
	if comanda.Status != model.ComandaOpen {
		return nil, apierror.Validation(fmt.Sprintf("comanda is %s and can no longer be modified", comanda.Status))
	}

	appointment, err := s.appointments.FindByID(ctx, comanda.AppointmentID)
	if err != nil {
		return nil, notFoundOr(err, "appointment not found")
	}
	if permErr := principal.canMutateComanda(appointment.BarberID); permErr != nil {
		return nil, permErr
	}
	return comanda, nil
}

// ── Close ────────────────────────────────────────────────────────────────────
//   1. Reject terminal states and empty comandas
//   2. Resolve the payment method to its canonical value
//   3. Reconcile the caller's final_total against the server computation
//   4. Atomic conditional open→closed transition (at-most-one close wins)
//   5. Trigger the async commission calculation, wait a bounded interval,
//      re-read; if still empty, invoke the idempotent recompute and re-read
//      once more. Whatever is available is surfaced — close never blocks on
//      commission completion.

func (s *comandaService) Close(ctx context.Context, principal Principal, comandaID uuid.UUID, req dto.CloseComandaRequest) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err != nil {
		return nil, notFoundOr(err, "comanda not found")
	}
	if comanda.Status != model.ComandaOpen {
		return nil, apierror.Validation(fmt.Sprintf("comanda is already %s", comanda.Status))
	}
	if len(comanda.Items) == 0 {
		return nil, apierror.Validation("cannot close a comanda with no items")
	}

	appointment, err := s.appointments.FindByID(ctx, comanda.AppointmentID)
	if err != nil {
		return nil, notFoundOr(err, "appointment not found")
	}
	if permErr := principal.canMutateComanda(appointment.BarberID); permErr != nil {
		return nil, permErr
	}

	method := payment.Resolve(req.PaymentMethod)

	expected := finalTotal(comanda.Total, comanda.Discount, comanda.Taxes)
	if req.FinalTotal != nil && !req.FinalTotal.Round(2).Equal(expected) {
		return nil, apierror.Validation(fmt.Sprintf(
			"final_total %s does not match the expected total %s",
			req.FinalTotal.Round(2).StringFixed(2), expected.StringFixed(2)))
	}

	closed, err := s.repo.CloseIfOpen(ctx, comandaID, method, expected, principal.UserID, time.Now().UTC())
	if err != nil {
		return nil, apierror.Database(err)
	}
	if !closed {
		// A concurrent close won the conditional update.
		return nil, apierror.Validation("comanda is already closed")
	}

	if s.calculator != nil {
		if err := s.calculator.Calculate(ctx, comandaID); err != nil {
			log.Warn().Err(err).Str("comanda_id", comandaID.String()).
				Msg("comanda: commission calculation trigger failed")
		}
		s.settleCommission(ctx, comandaID)
	}

	return s.Get(ctx, comandaID)
}

// settleCommission implements the bounded poll-then-recompute dance: the
// calculator may lag, so wait once, re-read, fall back to the idempotent
// recompute, and re-read one final time. Every failure here is best-effort —
// the comanda is already closed.
func (s *comandaService) settleCommission(ctx context.Context, comandaID uuid.UUID) {
	s.pause(ctx)

	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err == nil && !comanda.TotalCommission.IsZero() {
		s.fillMissingItemCommissions(ctx, comanda)
		return
	}

	if err := s.calculator.Recompute(ctx, comandaID); err != nil {
		log.Warn().Err(err).Str("comanda_id", comandaID.String()).
			Msg("comanda: commission recompute failed")
		return
	}
	s.pause(ctx)

	if comanda, err = s.repo.FindByID(ctx, comandaID); err == nil {
		s.fillMissingItemCommissions(ctx, comanda)
	}
}

// fillMissingItemCommissions is the defensive fallback for the gap where the
// calculator has written the group totals but the per-item fields are still
// empty: allocate each group's pool locally and persist only the unset items.
func (s *comandaService) fillMissingItemCommissions(ctx context.Context, comanda *model.Comanda) {
	services, products := commission.SplitByType(comanda.Items)
	groups := []struct {
		items []model.ComandaItem
		pool  decimal.Decimal
	}{
		{services, comanda.TotalServicesCommission},
		{products, comanda.TotalProductsCommission},
	}

	for _, g := range groups {
		if g.pool.IsZero() || len(g.items) == 0 {
			continue
		}
		populated := false
		for _, item := range g.items {
			if !item.CommissionValue.IsZero() {
				populated = true
				break
			}
		}
		if populated {
			continue
		}
		for _, alloc := range commission.Allocate(g.items, g.pool) {
			if err := s.repo.UpdateItemCommission(ctx, alloc.ItemID, alloc.Value, alloc.Percentage); err != nil {
				log.Warn().Err(err).Str("item_id", alloc.ItemID.String()).
					Msg("comanda: item commission fallback write failed")
			}
		}
	}
}

func (s *comandaService) pause(ctx context.Context) {
	if s.commissionWait <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.commissionWait):
	}
}

// ── Cancel ───────────────────────────────────────────────────────────────────

func (s *comandaService) Cancel(ctx context.Context, principal Principal, comandaID uuid.UUID) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err != nil {
		return nil, notFoundOr(err, "comanda not found")
	}
	if comanda.Status != model.ComandaOpen {
		return nil, apierror.Validation(fmt.Sprintf("comanda is already %s", comanda.Status))
	}

	appointment, err := s.appointments.FindByID(ctx, comanda.AppointmentID)
	if err != nil {
		return nil, notFoundOr(err, "appointment not found")
	}
	if permErr := principal.canMutateComanda(appointment.BarberID); permErr != nil {
		return nil, permErr
	}

	canceled, err := s.repo.CancelIfOpen(ctx, comandaID)
	if err != nil {
		return nil, apierror.Database(err)
	}
	if !canceled {
		return nil, apierror.Validation("comanda is no longer open")
	}
	return s.Get(ctx, comandaID)
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *comandaService) Get(ctx context.Context, id uuid.UUID) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "comanda not found")
	}
	return toComandaResponse(comanda), nil
}

func (s *comandaService) List(ctx context.Context, filter dto.ComandaFilter) ([]dto.ComandaResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	comandas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Database(err)
	}
	out := make([]dto.ComandaResponse, 0, len(comandas))
	for i := range comandas {
		out = append(out, *toComandaResponse(&comandas[i]))
	}
	return out, total, nil
}

func toComandaResponse(c *model.Comanda) *dto.ComandaResponse {
	items := make([]dto.ComandaItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		r := dto.ComandaItemResponse{
			ID:                   item.ID.String(),
			Quantity:             item.Quantity,
			UnitPrice:            item.UnitPrice,
			TotalPrice:           item.TotalPrice,
			CommissionValue:      item.CommissionValue,
			CommissionPercentage: item.CommissionPercentage,
		}
		if item.ServiceID != nil {
			id := item.ServiceID.String()
			r.ServiceID = &id
			if item.Service != nil {
				r.Description = item.Service.Name
			}
		}
		if item.ProductID != nil {
			id := item.ProductID.String()
			r.ProductID = &id
			if item.Product != nil {
				r.Description = item.Product.Name
			}
		}
		items = append(items, r)
	}

	resp := &dto.ComandaResponse{
		ID:                      c.ID.String(),
		AppointmentID:           c.AppointmentID.String(),
		ClientID:                c.ClientID.String(),
		Status:                  c.Status,
		Total:                   c.Total,
		Discount:                c.Discount,
		Taxes:                   c.Taxes,
		FinalTotal:              c.FinalTotal,
		PaymentMethod:           c.PaymentMethod,
		Items:                   items,
		TotalServicesCommission: c.TotalServicesCommission,
		TotalProductsCommission: c.TotalProductsCommission,
		TotalCommission:         c.TotalCommission,
	}
	if c.CashierID != nil {
		id := c.CashierID.String()
		resp.CashierID = &id
	}
	if c.ClosedAt != nil {
		t := c.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
