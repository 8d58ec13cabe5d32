package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/warklp/saasBarber-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueCommission = "jobs:commission"
	QueueAlerts     = "jobs:alerts"

	maxJobAttempts = 3
)

// Job is the generic envelope for all async tasks. Attempts counts failed
// processing rounds; the pool re-enqueues up to maxJobAttempts before moving
// the job to the DLQ.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// CommissionJobPayload triggers the commission calculation for one comanda.
// Recompute forces a wipe-and-recalculate even when details already exist.
type CommissionJobPayload struct {
	ComandaID string `json:"comanda_id"`
	Recompute bool   `json:"recompute"`
}

// AlertJobPayload carries a low-stock notification.
type AlertJobPayload struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	StockQuantity int    `json:"stock_quantity"`
	StockMinimum  int    `json:"stock_minimum"`
}

// Dispatcher enqueues async jobs into Redis lists. The worker pool dequeues
// them via BRPOP. It satisfies both service.CommissionCalculator and
// service.LowStockNotifier.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Calculate triggers the async commission calculation for a freshly closed
// comanda.
func (d *Dispatcher) Calculate(ctx context.Context, comandaID uuid.UUID) error {
	return d.enqueue(ctx, QueueCommission, "commission",
		CommissionJobPayload{ComandaID: comandaID.String()})
}

// Recompute is the idempotent repair path: existing details are wiped and
// recalculated.
func (d *Dispatcher) Recompute(ctx context.Context, comandaID uuid.UUID) error {
	return d.enqueue(ctx, QueueCommission, "commission",
		CommissionJobPayload{ComandaID: comandaID.String(), Recompute: true})
}

// NotifyLowStock pushes a low-stock alert job.
func (d *Dispatcher) NotifyLowStock(ctx context.Context, product *model.Product) error {
	return d.enqueue(ctx, QueueAlerts, "low_stock", AlertJobPayload{
		ProductID:     product.ID.String(),
		ProductName:   product.Name,
		StockQuantity: product.StockQuantity,
		StockMinimum:  product.StockMinimum,
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers holds the per-queue processors consumed by the pool.
type Handlers struct {
	Commission *CommissionWorker
	Alerts     *AlertWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	queues := []string{QueueCommission, QueueAlerts}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch queue {
	case QueueCommission:
		err = handlers.Commission.Process(ctx, job.Payload)
	case QueueAlerts:
		err = handlers.Alerts.Process(ctx, job.Payload)
	default:
		log.Error().Str("queue", queue).Msg("no handler for queue")
		return
	}
	if err == nil {
		return
	}

	job.Attempts++
	if job.Attempts >= maxJobAttempts {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}

	log.Warn().Err(err).Str("queue", queue).Int("attempts", job.Attempts).
		Msg("job failed, re-enqueueing")
	encoded, marshalErr := json.Marshal(job)
	if marshalErr != nil {
		log.Error().Err(marshalErr).Str("queue", queue).Msg("failed to re-enqueue job")
		return
	}
	if pushErr := rdb.LPush(ctx, queue, encoded).Err(); pushErr != nil {
		log.Error().Err(pushErr).Str("queue", queue).Msg("failed to re-enqueue job")
	}
}
