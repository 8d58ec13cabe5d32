package worker

// alert_worker.go
// Processes low-stock alert jobs from QueueAlerts. Sends the alert email
// through the SMTP circuit breaker so a downed relay fast-fails instead of
// blocking the pool.

import (
	"context"
	"encoding/json"

	"github.com/warklp/saasBarber-sub001/internal/infra"

	"github.com/rs/zerolog/log"
)

type AlertWorker struct {
	mailer     *infra.Mailer
	cb         *infra.CircuitBreaker
	alertEmail string
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, alertEmail string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, alertEmail: alertEmail}
}

// Process sends one low-stock alert. A returned error means the pool should
// retry; an unconfigured recipient drops the job silently.
func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return nil
	}
	if w.alertEmail == "" {
		log.Debug().Str("product", payload.ProductName).
			Msg("alert_worker: no alert email configured, dropping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendLowStockAlert(w.alertEmail, payload.ProductName,
			payload.StockQuantity, payload.StockMinimum)
	})
	if err != nil {
		log.Warn().Err(err).Str("product", payload.ProductName).
			Msg("alert_worker: failed to send alert")
		return err
	}

	log.Info().Str("product", payload.ProductName).Str("to", w.alertEmail).
		Msg("alert_worker: low-stock alert sent")
	return nil
}
