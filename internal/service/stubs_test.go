package service

// stubs_test.go — shared in-memory repository stubs for the service unit
// tests. DB() returns nil so runTx executes callbacks directly, without a
// real transaction.

import (
	"context"
	"time"

	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── ComandaRepository ────────────────────────────────────────────────────────

type stubComandaRepo struct {
	comandas map[uuid.UUID]*model.Comanda
	items    map[uuid.UUID]*model.ComandaItem
}

func newStubComandaRepo() *stubComandaRepo {
	return &stubComandaRepo{
		comandas: make(map[uuid.UUID]*model.Comanda),
		items:    make(map[uuid.UUID]*model.ComandaItem),
	}
}

func (r *stubComandaRepo) Create(_ context.Context, c *model.Comanda) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.comandas[c.ID] = c
	return nil
}

func (r *stubComandaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Comanda, error) {
	c, ok := r.comandas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *c
	out.Items = nil
	for _, item := range r.items {
		if item.ComandaID == id {
			out.Items = append(out.Items, *item)
		}
	}
	return &out, nil
}

func (r *stubComandaRepo) FindByAppointmentID(_ context.Context, appointmentID uuid.UUID) (*model.Comanda, error) {
	for id, c := range r.comandas {
		if c.AppointmentID == appointmentID {
			return r.FindByID(context.Background(), id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubComandaRepo) List(_ context.Context, filter dto.ComandaFilter) ([]model.Comanda, int64, error) {
	var out []model.Comanda
	for _, c := range r.comandas {
		if filter.Status != "" && filter.Status != "all" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubComandaRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*model.ComandaItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *item
	return &out, nil
}

func (r *stubComandaRepo) CreateItemTx(_ *gorm.DB, item *model.ComandaItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubComandaRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	delete(r.items, itemID)
	return nil
}

func (r *stubComandaRepo) SumItemsTx(_ *gorm.DB, comandaID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range r.items {
		if item.ComandaID == comandaID {
			sum = sum.Add(item.TotalPrice)
		}
	}
	return sum, nil
}

func (r *stubComandaRepo) UpdateTotalTx(_ *gorm.DB, comandaID uuid.UUID, total decimal.Decimal) error {
	c, ok := r.comandas[comandaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Total = total
	return nil
}

func (r *stubComandaRepo) CloseIfOpen(_ context.Context, id uuid.UUID, paymentMethod string, finalTotal decimal.Decimal, cashierID uuid.UUID, closedAt time.Time) (bool, error) {
	c, ok := r.comandas[id]
	if !ok || c.Status != model.ComandaOpen {
		return false, nil
	}
	c.Status = model.ComandaClosed
	c.PaymentMethod = &paymentMethod
	c.FinalTotal = finalTotal
	c.CashierID = &cashierID
	c.ClosedAt = &closedAt
	return true, nil
}

func (r *stubComandaRepo) CancelIfOpen(_ context.Context, id uuid.UUID) (bool, error) {
	c, ok := r.comandas[id]
	if !ok || c.Status != model.ComandaOpen {
		return false, nil
	}
	c.Status = model.ComandaCanceled
	return true, nil
}

func (r *stubComandaRepo) UpdateCommissionTotals(_ context.Context, id uuid.UUID, services, products, total decimal.Decimal) error {
	c, ok := r.comandas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalServicesCommission = services
	c.TotalProductsCommission = products
	c.TotalCommission = total
	return nil
}

func (r *stubComandaRepo) UpdateItemCommission(_ context.Context, itemID uuid.UUID, value, percentage decimal.Decimal) error {
	item, ok := r.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.CommissionValue = value
	item.CommissionPercentage = percentage
	return nil
}

func (r *stubComandaRepo) ListClosedMissingCommission(_ context.Context, closedBefore time.Time, limit int) ([]model.Comanda, error) {
	var out []model.Comanda
	for _, c := range r.comandas {
		if c.Status == model.ComandaClosed && c.TotalCommission.IsZero() &&
			c.ClosedAt != nil && c.ClosedAt.Before(closedBefore) {
			out = append(out, *c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubComandaRepo) DB() *gorm.DB { return nil }

// ── AppointmentRepository ────────────────────────────────────────────────────

type stubAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *a
	return &out, nil
}

func (r *stubAppointmentRepo) List(_ context.Context, _ dto.AppointmentFilter) ([]model.Appointment, int64, error) {
	var out []model.Appointment
	for _, a := range r.appointments {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := r.appointments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

// ── ServiceRepository ────────────────────────────────────────────────────────

type stubServiceRepo struct {
	services map[uuid.UUID]*model.BarberService
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{services: make(map[uuid.UUID]*model.BarberService)}
}

func (r *stubServiceRepo) Create(_ context.Context, s *model.BarberService) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.services[s.ID] = s
	return nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.BarberService, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubServiceRepo) List(_ context.Context) ([]model.BarberService, error) {
	var out []model.BarberService
	for _, s := range r.services {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubServiceRepo) Update(_ context.Context, s *model.BarberService) error {
	r.services[s.ID] = s
	return nil
}

func (r *stubServiceRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if s, ok := r.services[id]; ok {
		s.Active = false
	}
	return nil
}

// ── ProductRepository ────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *p
	return &out, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) ApplyStockDeltaTx(_ *gorm.DB, id uuid.UUID, delta int, allowNegative bool) (int64, error) {
	p, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	if !allowNegative && p.StockQuantity+delta < 0 {
		return 0, nil
	}
	p.StockQuantity += delta
	return 1, nil
}

func (r *stubProductRepo) ListBelowMinimum(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.StockQuantity < p.StockMinimum {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── StockMovementRepository ──────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []*model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.ProductID != "" && m.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

// ── AuditRepository ──────────────────────────────────────────────────────────

type stubAuditRepo struct {
	entries []*model.AuditLog
	failErr error
}

func (r *stubAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubAuditRepo) ListByEvent(_ context.Context, event string, _ int) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for _, e := range r.entries {
		if e.Event == event {
			out = append(out, *e)
		}
	}
	return out, nil
}

// ── LowStockNotifier ─────────────────────────────────────────────────────────

type stubNotifier struct {
	notified []uuid.UUID
	failErr  error
}

func (n *stubNotifier) NotifyLowStock(_ context.Context, product *model.Product) error {
	if n.failErr != nil {
		return n.failErr
	}
	n.notified = append(n.notified, product.ID)
	return nil
}

// ── CommissionCalculator ─────────────────────────────────────────────────────

// stubCalculator records trigger calls; onCalculate simulates the async
// worker writing results (runs synchronously here).
type stubCalculator struct {
	calculated  []uuid.UUID
	recomputed  []uuid.UUID
	onCalculate func(comandaID uuid.UUID)
	onRecompute func(comandaID uuid.UUID)
}

func (s *stubCalculator) Calculate(_ context.Context, comandaID uuid.UUID) error {
	s.calculated = append(s.calculated, comandaID)
	if s.onCalculate != nil {
		s.onCalculate(comandaID)
	}
	return nil
}

func (s *stubCalculator) Recompute(_ context.Context, comandaID uuid.UUID) error {
	s.recomputed = append(s.recomputed, comandaID)
	if s.onRecompute != nil {
		s.onRecompute(comandaID)
	}
	return nil
}
