package service

import (
	"context"
	"testing"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type comandaFixture struct {
	repo         *stubComandaRepo
	appointments *stubAppointmentRepo
	services     *stubServiceRepo
	products     *stubProductRepo
	calc         *stubCalculator
	svc          ComandaService

	barberID  uuid.UUID
	clientID  uuid.UUID
	serviceID uuid.UUID
	productID uuid.UUID

	appointment *model.Appointment
	admin       Principal
}

func newComandaFixture(t *testing.T) *comandaFixture {
	t.Helper()

	f := &comandaFixture{
		repo:         newStubComandaRepo(),
		appointments: newStubAppointmentRepo(),
		services:     newStubServiceRepo(),
		products:     newStubProductRepo(),
		calc:         &stubCalculator{},
		barberID:     uuid.New(),
		clientID:     uuid.New(),
	}

	svc := &model.BarberService{ID: uuid.New(), Name: "Corte", Price: decimal.RequireFromString("50.00"), Active: true}
	require.NoError(t, f.services.Create(context.Background(), svc))
	f.serviceID = svc.ID

	product := &model.Product{ID: uuid.New(), Name: "Pomade", Price: decimal.RequireFromString("10.00"), StockQuantity: 20, Active: true}
	require.NoError(t, f.products.Create(context.Background(), product))
	f.productID = product.ID

	f.appointment = &model.Appointment{
		ID:       uuid.New(),
		ClientID: f.clientID,
		BarberID: f.barberID,
		Status:   model.AppointmentInProgress,
	}
	require.NoError(t, f.appointments.Create(context.Background(), f.appointment))

	f.admin = Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	f.svc = NewComandaService(f.repo, f.appointments, f.services, f.products, f.calc, 0)
	return f
}

// open seeds an open comanda for the fixture appointment, bypassing the
// service layer so tests can control its state directly.
func (f *comandaFixture) open(t *testing.T) uuid.UUID {
	t.Helper()
	c := &model.Comanda{
		AppointmentID: f.appointment.ID,
		ClientID:      f.clientID,
		Status:        model.ComandaOpen,
	}
	require.NoError(t, f.repo.Create(context.Background(), c))
	return c.ID
}

func (f *comandaFixture) addServiceItem(t *testing.T, comandaID uuid.UUID, price string, qty int) *dto.ComandaResponse {
	t.Helper()
	id := f.serviceID.String()
	resp, err := f.svc.AddItem(context.Background(), f.admin, comandaID, dto.AddItemRequest{
		ServiceID: &id,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return resp
}

func requireAPIError(t *testing.T, err error, code string) *apierror.Error {
	t.Helper()
	require.Error(t, err)
	apiErr := apierror.From(err)
	require.Equal(t, code, apiErr.Code, "got %v", err)
	return apiErr
}

// ── Open ─────────────────────────────────────────────────────────────────────

func TestOpenComanda(t *testing.T) {
	f := newComandaFixture(t)

	resp, err := f.svc.Open(context.Background(), f.admin, dto.OpenComandaRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ComandaOpen, resp.Status)
	assert.Equal(t, f.appointment.ID.String(), resp.AppointmentID)
	assert.True(t, resp.Total.IsZero())
}

func TestOpenComandaConflictOnSecondOpen(t *testing.T) {
	f := newComandaFixture(t)
	f.open(t)

	_, err := f.svc.Open(context.Background(), f.admin, dto.OpenComandaRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	requireAPIError(t, err, apierror.CodeConflict)
}

func TestOpenComandaUnknownAppointment(t *testing.T) {
	f := newComandaFixture(t)

	_, err := f.svc.Open(context.Background(), f.admin, dto.OpenComandaRequest{
		AppointmentID: uuid.NewString(),
	})
	requireAPIError(t, err, apierror.CodeNotFound)
}

// ── Items ────────────────────────────────────────────────────────────────────

func TestAddItemRecomputesTotal(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)

	resp := f.addServiceItem(t, comandaID, "50.00", 1)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("50.00")), "got %s", resp.Total)

	productID := f.productID.String()
	resp, err := f.svc.AddItem(context.Background(), f.admin, comandaID, dto.AddItemRequest{
		ProductID: &productID,
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	// The total is re-derived from the item set, not incremented.
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("70.00")), "got %s", resp.Total)
	require.Len(t, resp.Items, 2)
}

func TestAddItemRequiresExactlyOneReference(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)

	serviceID := f.serviceID.String()
	productID := f.productID.String()

	_, err := f.svc.AddItem(context.Background(), f.admin, comandaID, dto.AddItemRequest{
		Quantity: 1, UnitPrice: decimal.RequireFromString("10.00"),
	})
	requireAPIError(t, err, apierror.CodeValidation)

	_, err = f.svc.AddItem(context.Background(), f.admin, comandaID, dto.AddItemRequest{
		ServiceID: &serviceID, ProductID: &productID,
		Quantity: 1, UnitPrice: decimal.RequireFromString("10.00"),
	})
	requireAPIError(t, err, apierror.CodeValidation)
}

func TestAddItemUnknownService(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)

	unknown := uuid.NewString()
	_, err := f.svc.AddItem(context.Background(), f.admin, comandaID, dto.AddItemRequest{
		ServiceID: &unknown, Quantity: 1, UnitPrice: decimal.RequireFromString("10.00"),
	})
	requireAPIError(t, err, apierror.CodeNotFound)
}

func TestAddItemRejectsClosedComanda(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.repo.comandas[comandaID].Status = model.ComandaClosed

	serviceID := f.serviceID.String()
	_, err := f.svc.AddItem(context.Background(), f.admin, comandaID, dto.AddItemRequest{
		ServiceID: &serviceID, Quantity: 1, UnitPrice: decimal.RequireFromString("10.00"),
	})
	requireAPIError(t, err, apierror.CodeValidation)
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)
	resp := f.addServiceItem(t, comandaID, "30.00", 1)
	require.Len(t, resp.Items, 2)

	itemID, err := uuid.Parse(resp.Items[0].ID)
	require.NoError(t, err)

	resp, err = f.svc.RemoveItem(context.Background(), f.admin, comandaID, itemID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Total.Equal(resp.Items[0].TotalPrice),
		"total %s must equal the remaining item's price %s", resp.Total, resp.Items[0].TotalPrice)
}

func TestRemoveItemFromDifferentComanda(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	// An item that belongs to another comanda must read as not found here.
	foreign := &model.ComandaItem{
		ID:         uuid.New(),
		ComandaID:  uuid.New(),
		Quantity:   1,
		UnitPrice:  decimal.RequireFromString("5.00"),
		TotalPrice: decimal.RequireFromString("5.00"),
	}
	require.NoError(t, f.repo.CreateItemTx(nil, foreign))

	_, err := f.svc.RemoveItem(context.Background(), f.admin, comandaID, foreign.ID)
	requireAPIError(t, err, apierror.CodeNotFound)
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestCloseComputesFinalTotal(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.repo.comandas[comandaID].Discount = decimal.RequireFromString("5.00")
	f.repo.comandas[comandaID].Taxes = decimal.RequireFromString("2.50")
	f.addServiceItem(t, comandaID, "50.00", 1)

	resp, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{
		PaymentMethod: "pix",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ComandaClosed, resp.Status)
	// 50.00 − 5.00 + 2.50
	assert.True(t, resp.FinalTotal.Equal(decimal.RequireFromString("47.50")), "got %s", resp.FinalTotal)
	require.NotNil(t, resp.PaymentMethod)
	assert.Equal(t, model.PaymentPix, *resp.PaymentMethod)
	require.NotNil(t, resp.CashierID)
	assert.Equal(t, f.admin.UserID.String(), *resp.CashierID)
	assert.NotNil(t, resp.ClosedAt)
	assert.Equal(t, []uuid.UUID{comandaID}, f.calc.calculated)
}

func TestCloseDefaultsToCash(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	resp, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.PaymentMethod)
	assert.Equal(t, model.PaymentCash, *resp.PaymentMethod)
}

func TestCloseClampsNegativeFinalTotal(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.repo.comandas[comandaID].Discount = decimal.RequireFromString("100.00")
	f.addServiceItem(t, comandaID, "50.00", 1)

	resp, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, resp.FinalTotal.IsZero(), "got %s", resp.FinalTotal)
}

func TestCloseEmptyComanda(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)

	_, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{
		PaymentMethod: "cash",
	})
	requireAPIError(t, err, apierror.CodeValidation)
}

func TestCloseFinalTotalMismatch(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	wrong := decimal.RequireFromString("49.99")
	_, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{
		PaymentMethod: "cash",
		FinalTotal:    &wrong,
	})
	apiErr := requireAPIError(t, err, apierror.CodeValidation)
	assert.Contains(t, apiErr.Message, "does not match")
	assert.Empty(t, f.calc.calculated, "mismatch must not trigger the calculator")
}

func TestCloseMatchingFinalTotalAccepted(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	exact := decimal.RequireFromString("50.00")
	resp, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{
		PaymentMethod: "cash",
		FinalTotal:    &exact,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ComandaClosed, resp.Status)
}

func TestDoubleCloseRejected(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	_, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{PaymentMethod: "cash"})
	require.NoError(t, err)

	_, err = f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{PaymentMethod: "cash"})
	requireAPIError(t, err, apierror.CodeValidation)
	assert.Len(t, f.calc.calculated, 1, "second close must not re-trigger the calculator")
}

func TestCloseFillsMissingItemCommissions(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	// The calculator writes the group totals but leaves the per-item fields
	// empty — the close-time fallback must allocate them locally.
	f.calc.onCalculate = func(id uuid.UUID) {
		_ = f.repo.UpdateCommissionTotals(context.Background(), id,
			decimal.RequireFromString("5.00"), decimal.Zero, decimal.RequireFromString("5.00"))
	}

	resp, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{PaymentMethod: "cash"})
	require.NoError(t, err)

	assert.True(t, resp.TotalCommission.Equal(decimal.RequireFromString("5.00")))
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].CommissionValue.Equal(decimal.RequireFromString("5.00")),
		"got %s", resp.Items[0].CommissionValue)
	assert.Empty(t, f.calc.recomputed, "recompute must not run when totals already landed")
}

func TestCloseFallsBackToRecompute(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	// Calculate lands nothing; only the idempotent Recompute produces totals.
	f.calc.onRecompute = func(id uuid.UUID) {
		_ = f.repo.UpdateCommissionTotals(context.Background(), id,
			decimal.RequireFromString("10.00"), decimal.Zero, decimal.RequireFromString("10.00"))
	}

	resp, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{PaymentMethod: "cash"})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{comandaID}, f.calc.recomputed)
	assert.True(t, resp.TotalCommission.Equal(decimal.RequireFromString("10.00")))
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].CommissionValue.Equal(decimal.RequireFromString("10.00")))
}

// ── Permissions ──────────────────────────────────────────────────────────────

func TestBarberMayOnlyMutateOwnComanda(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)

	assigned := Principal{UserID: f.barberID, Role: model.RoleBarber}
	other := Principal{UserID: uuid.New(), Role: model.RoleBarber}
	serviceID := f.serviceID.String()

	_, err := f.svc.AddItem(context.Background(), assigned, comandaID, dto.AddItemRequest{
		ServiceID: &serviceID, Quantity: 1, UnitPrice: decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)

	_, err = f.svc.AddItem(context.Background(), other, comandaID, dto.AddItemRequest{
		ServiceID: &serviceID, Quantity: 1, UnitPrice: decimal.RequireFromString("50.00"),
	})
	requireAPIError(t, err, apierror.CodeForbidden)
}

func TestClientMayNotMutateComanda(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	client := Principal{UserID: uuid.New(), Role: model.RoleClient}
	_, err := f.svc.Close(context.Background(), client, comandaID, dto.CloseComandaRequest{PaymentMethod: "cash"})
	requireAPIError(t, err, apierror.CodeForbidden)
}

// ── Cancel ───────────────────────────────────────────────────────────────────

func TestCancelOpenComanda(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	resp, err := f.svc.Cancel(context.Background(), f.admin, comandaID)
	require.NoError(t, err)
	assert.Equal(t, model.ComandaCanceled, resp.Status)

	_, err = f.svc.Cancel(context.Background(), f.admin, comandaID)
	requireAPIError(t, err, apierror.CodeValidation)
}

func TestCancelClosedComandaRejected(t *testing.T) {
	f := newComandaFixture(t)
	comandaID := f.open(t)
	f.addServiceItem(t, comandaID, "50.00", 1)

	_, err := f.svc.Close(context.Background(), f.admin, comandaID, dto.CloseComandaRequest{PaymentMethod: "cash"})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), f.admin, comandaID)
	requireAPIError(t, err, apierror.CodeValidation)
}
