//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers, with the
// async worker pool running. Run with:
//
//	go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/warklp/saasBarber-sub001/internal/config"
	"github.com/warklp/saasBarber-sub001/internal/infra"
	"github.com/warklp/saasBarber-sub001/internal/repository"
	"github.com/warklp/saasBarber-sub001/internal/router"
	"github.com/warklp/saasBarber-sub001/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── helpers ──────────────────────────────────────────────────────────────────

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) (*http.Response, envelope) {
	t.Helper()
	var reader *bytes.Buffer
	if body == nil {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = body
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func decodeData(t *testing.T, env envelope, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

// ── setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("saasbarber_test"),
		tcPostgres.WithUsername("barber"),
		tcPostgres.WithPassword("barber"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                8000,
		Env:                 "test",
		WorkerPoolSize:      1,
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		JWTSecret:           "e2e-secret",
		JWTExpirationHours:  8,
		JWTRefreshHours:     24,
		CommissionWaitMS:    300,
		CommissionRetrySecs: 1,
		PDFStoragePath:      t.TempDir(),
		BusinessName:        "E2E Barber",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Worker pool — same wiring as cmd/server
	workerCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)

	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	comandaRepo := repository.NewComandaRepository(db)
	handlers := &worker.Handlers{
		Commission: worker.NewCommissionWorker(
			comandaRepo,
			repository.NewAppointmentRepository(db),
			repository.NewUserRepository(db),
			repository.NewCommissionRepository(db)),
		Alerts: worker.NewAlertWorker(mailer, smtpCB, ""), // no alert email in e2e
	}
	worker.StartWorkerPool(workerCtx, rdb, handlers, cfg.WorkerPoolSize)
	worker.StartRetryCron(workerCtx, worker.RetryCronConfig{
		ComandaRepo: comandaRepo,
		Dispatcher:  dispatcher,
		GracePeriod: time.Duration(cfg.CommissionRetrySecs) * time.Second,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		INSERT INTO users (id, name, email, password_hash, role, active, created_at, updated_at)
		VALUES (gen_random_uuid(), 'Admin E2E', 'admin@e2e.test', ?, 'admin', true, NOW(), NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	srv := httptest.NewServer(router.New(cfg, db, rdb, smtpCB))
	t.Cleanup(srv.Close)

	resp, env := do(t, srv, "POST", "/auth/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "admin123"}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, env, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken}
}

type created struct {
	ID string `json:"id"`
}

func (e *testEnv) create(t *testing.T, path string, body map[string]any) string {
	t.Helper()
	resp, env := do(t, e.server, "POST", path, jsonBody(t, body), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "POST %s: %+v", path, env.Error)
	var c created
	decodeData(t, env, &c)
	require.NotEmpty(t, c.ID)
	return c.ID
}

// ── tests ────────────────────────────────────────────────────────────────────

// Full lifecycle: barber + catalog + appointment → comanda → items → close →
// async commission settlement → appointment completion.
func TestE2E_ComandaLifecycle(t *testing.T) {
	e := setupTestEnv(t)

	barberID := e.create(t, "/users", map[string]any{
		"name": "Barber E2E", "email": "barber@e2e.test", "password": "barber123",
		"role": "barber", "commission_rate": 10,
	})
	clientID := e.create(t, "/customers", map[string]any{"name": "Client E2E"})
	serviceID := e.create(t, "/services", map[string]any{
		"name": "Corte", "price": 50, "duration_minutes": 30,
	})
	productID := e.create(t, "/products", map[string]any{
		"name": "Pomade", "price": 25, "stock_minimum": 2,
	})

	// Stock in 10 units so the sale below has inventory to consume.
	_, env := do(t, e.server, "POST", "/stock-movements", jsonBody(t, map[string]any{
		"product_id": productID, "quantity": 10, "movement_type": "purchase",
	}), e.token)
	require.True(t, env.Success)

	appointmentID := e.create(t, "/appointments", map[string]any{
		"client_id": clientID, "barber_id": barberID, "service_id": serviceID,
		"scheduled_at": time.Now().UTC().Format(time.RFC3339),
	})
	comandaID := e.create(t, "/comandas", map[string]any{"appointment_id": appointmentID})

	resp, env := do(t, e.server, "POST", "/comandas/"+comandaID+"/items", jsonBody(t, map[string]any{
		"service_id": serviceID, "quantity": 1, "unit_price": 50,
	}), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env = do(t, e.server, "POST", "/comandas/"+comandaID+"/items", jsonBody(t, map[string]any{
		"product_id": productID, "quantity": 2, "unit_price": 25,
	}), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comanda struct {
		Status          string          `json:"status"`
		Total           decimal.Decimal `json:"total"`
		FinalTotal      decimal.Decimal `json:"final_total"`
		PaymentMethod   *string         `json:"payment_method"`
		TotalCommission decimal.Decimal `json:"total_commission"`
	}
	decodeData(t, env, &comanda)
	assert.True(t, comanda.Total.Equal(decimal.NewFromInt(100)), "got %s", comanda.Total)

	resp, env = do(t, e.server, "PATCH", "/comandas/"+comandaID+"/close",
		jsonBody(t, map[string]any{"payment_method": "pix"}), e.token)
	require.Equal(t, http.StatusOK, resp.StatusCode, "%+v", env.Error)
	decodeData(t, env, &comanda)
	assert.Equal(t, "closed", comanda.Status)
	assert.True(t, comanda.FinalTotal.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, comanda.PaymentMethod)
	assert.Equal(t, "pix", *comanda.PaymentMethod)

	// The commission worker may lag behind the close response; poll briefly.
	// 100.00 × 10% = 10.00
	deadline := time.Now().Add(10 * time.Second)
	for comanda.TotalCommission.IsZero() && time.Now().Before(deadline) {
		time.Sleep(250 * time.Millisecond)
		_, env = do(t, e.server, "GET", "/comandas/"+comandaID, nil, e.token)
		decodeData(t, env, &comanda)
	}
	assert.True(t, comanda.TotalCommission.Equal(decimal.NewFromInt(10)),
		"got %s", comanda.TotalCommission)

	// Closing twice must fail.
	resp, _ = do(t, e.server, "PATCH", "/comandas/"+comandaID+"/close",
		jsonBody(t, map[string]any{"payment_method": "cash"}), e.token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Receipt renders for the closed comanda.
	req, err := http.NewRequest("GET", e.server.URL+"/comandas/"+comandaID+"/receipt", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)
	receiptResp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer receiptResp.Body.Close()
	assert.Equal(t, http.StatusOK, receiptResp.StatusCode)
}

// The stock guard must reject a sale beyond available inventory and leave no
// ledger entry behind.
func TestE2E_StockGuard(t *testing.T) {
	e := setupTestEnv(t)

	productID := e.create(t, "/products", map[string]any{
		"name": "Tonic", "price": 30, "stock_minimum": 1,
	})
	_, env := do(t, e.server, "POST", "/stock-movements", jsonBody(t, map[string]any{
		"product_id": productID, "quantity": 3, "movement_type": "purchase",
	}), e.token)
	require.True(t, env.Success)

	resp, env := do(t, e.server, "POST", "/stock-movements", jsonBody(t, map[string]any{
		"product_id": productID, "quantity": 5, "movement_type": "sale",
	}), e.token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	// Adjustment is the one type allowed to take stock negative.
	resp, env = do(t, e.server, "POST", "/stock-movements", jsonBody(t, map[string]any{
		"product_id": productID, "quantity": -5, "movement_type": "adjustment",
	}), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var movement struct {
		StockAfter int `json:"stock_after"`
	}
	decodeData(t, env, &movement)
	assert.Equal(t, -2, movement.StockAfter)
}

// Completing an appointment auto-closes its open comanda with cash.
func TestE2E_AppointmentCompletionCascade(t *testing.T) {
	e := setupTestEnv(t)

	barberID := e.create(t, "/users", map[string]any{
		"name": "Barber Two", "email": "barber2@e2e.test", "password": "barber123",
		"role": "barber", "commission_rate": 15,
	})
	clientID := e.create(t, "/customers", map[string]any{"name": "Client Two"})
	serviceID := e.create(t, "/services", map[string]any{
		"name": "Barba", "price": 30, "duration_minutes": 20,
	})

	appointmentID := e.create(t, "/appointments", map[string]any{
		"client_id": clientID, "barber_id": barberID, "service_id": serviceID,
		"scheduled_at": time.Now().UTC().Format(time.RFC3339),
	})
	comandaID := e.create(t, "/comandas", map[string]any{"appointment_id": appointmentID})
	_, env := do(t, e.server, "POST", "/comandas/"+comandaID+"/items", jsonBody(t, map[string]any{
		"service_id": serviceID, "quantity": 1, "unit_price": 30,
	}), e.token)
	require.True(t, env.Success)

	resp, env := do(t, e.server, "PATCH", "/appointments/"+appointmentID+"/complete", nil, e.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var appt struct {
		Status string `json:"status"`
	}
	decodeData(t, env, &appt)
	assert.Equal(t, "completed", appt.Status)

	_, env = do(t, e.server, "GET", "/comandas/"+comandaID, nil, e.token)
	var comanda struct {
		Status        string  `json:"status"`
		PaymentMethod *string `json:"payment_method"`
	}
	decodeData(t, env, &comanda)
	assert.Equal(t, "closed", comanda.Status)
	require.NotNil(t, comanda.PaymentMethod)
	assert.Equal(t, "cash", *comanda.PaymentMethod)
}
