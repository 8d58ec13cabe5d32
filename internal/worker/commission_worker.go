package worker

// commission_worker.go
// Processes commission jobs from QueueCommission. For a closed comanda it
// splits the items into the services and products groups, derives each
// group's commission pool from the barber's configured rate, allocates the
// pool proportionally across the group, and persists per-item values plus
// one CommissionDetail row per item. Recompute wipes existing details first,
// which makes the whole pass idempotent.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/warklp/saasBarber-sub001/internal/commission"
	"github.com/warklp/saasBarber-sub001/internal/model"
	"github.com/warklp/saasBarber-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CommissionWorker struct {
	comandas     repository.ComandaRepository
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	commissions  repository.CommissionRepository
}

func NewCommissionWorker(
	comandas repository.ComandaRepository,
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	commissions repository.CommissionRepository,
) *CommissionWorker {
	return &CommissionWorker{
		comandas:     comandas,
		appointments: appointments,
		users:        users,
		commissions:  commissions,
	}
}

// Process handles a single commission job. A returned error means the pool
// should retry; unprocessable payloads are logged and dropped.
func (w *CommissionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CommissionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("commission_worker: invalid payload")
		return nil
	}
	comandaID, err := uuid.Parse(payload.ComandaID)
	if err != nil {
		log.Error().Str("comanda_id", payload.ComandaID).Msg("commission_worker: invalid comanda_id")
		return nil
	}

	comanda, err := w.comandas.FindByID(ctx, comandaID)
	if err != nil {
		return fmt.Errorf("load comanda: %w", err)
	}
	if comanda.Status != model.ComandaClosed {
		// Close raced the job, or the comanda was canceled — nothing to do.
		log.Debug().Str("comanda_id", payload.ComandaID).Str("status", comanda.Status).
			Msg("commission_worker: comanda not closed, skipping")
		return nil
	}

	existing, err := w.commissions.ListByComandaID(ctx, comandaID)
	if err != nil {
		return fmt.Errorf("list details: %w", err)
	}
	if len(existing) > 0 {
		if !payload.Recompute {
			log.Debug().Str("comanda_id", payload.ComandaID).
				Msg("commission_worker: details already exist, skipping")
			return nil
		}
		if err := w.commissions.DeleteByComandaID(ctx, comandaID); err != nil {
			return fmt.Errorf("wipe details: %w", err)
		}
	}

	appointment, err := w.appointments.FindByID(ctx, comanda.AppointmentID)
	if err != nil {
		return fmt.Errorf("load appointment: %w", err)
	}
	barber, err := w.users.FindByID(ctx, appointment.BarberID)
	if err != nil {
		return fmt.Errorf("load barber: %w", err)
	}

	services, products := commission.SplitByType(comanda.Items)

	servicesTotal, err := w.settleGroup(ctx, services, barber)
	if err != nil {
		return err
	}
	productsTotal, err := w.settleGroup(ctx, products, barber)
	if err != nil {
		return err
	}

	total := servicesTotal.Add(productsTotal)
	if err := w.comandas.UpdateCommissionTotals(ctx, comandaID, servicesTotal, productsTotal, total); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}

	log.Info().
		Str("comanda_id", payload.ComandaID).
		Str("barber_id", barber.ID.String()).
		Str("total", total.StringFixed(2)).
		Msg("commission_worker: comanda settled")
	return nil
}

// settleGroup computes a group's commission pool from the barber's rate,
// allocates it across the group's items, and persists the item values plus
// their detail rows. Returns the group pool.
func (w *CommissionWorker) settleGroup(ctx context.Context, group []model.ComandaItem, barber *model.User) (decimal.Decimal, error) {
	if len(group) == 0 {
		return decimal.Zero, nil
	}

	groupTotal := decimal.Zero
	for _, item := range group {
		groupTotal = groupTotal.Add(item.TotalPrice)
	}
	pool := groupTotal.Mul(barber.CommissionRate).Div(hundred).Round(2)

	for _, alloc := range commission.Allocate(group, pool) {
		if err := w.comandas.UpdateItemCommission(ctx, alloc.ItemID, alloc.Value, alloc.Percentage); err != nil {
			return decimal.Zero, fmt.Errorf("write item commission: %w", err)
		}
		detail := &model.CommissionDetail{
			ComandaItemID:   alloc.ItemID,
			EmployeeID:      barber.ID,
			Type:            model.CommissionTypePercentage,
			Rate:            barber.CommissionRate,
			CalculatedValue: alloc.Value,
			Status:          model.CommissionPending,
		}
		if err := w.commissions.Create(ctx, detail); err != nil {
			return decimal.Zero, fmt.Errorf("write detail: %w", err)
		}
	}
	return pool, nil
}
