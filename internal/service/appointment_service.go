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

type AppointmentService interface {
	Create(ctx context.Context, principal Principal, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	List(ctx context.Context, filter dto.AppointmentFilter) ([]dto.AppointmentResponse, int64, error)
	UpdateStatus(ctx context.Context, principal Principal, id uuid.UUID, req dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, principal Principal, id uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, principal Principal, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentService struct {
	repo     repository.AppointmentRepository
	comandas repository.ComandaRepository
	tabs     ComandaService
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	comandas repository.ComandaRepository,
	tabs ComandaService,
) AppointmentService {
	return &appointmentService{repo: repo, comandas: comandas, tabs: tabs}
}

func (s *appointmentService) Create(ctx context.Context, principal Principal, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !principal.isStaff() {
		return nil, apierror.Forbidden("only admin or cashier may create appointments")
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, apierror.Validation("client_id is not a valid UUID")
	}
	barberID, err := uuid.Parse(req.BarberID)
	if err != nil {
		return nil, apierror.Validation("barber_id is not a valid UUID")
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apierror.Validation("service_id is not a valid UUID")
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, apierror.Validation("scheduled_at must be an RFC 3339 timestamp")
	}

	appointment := &model.Appointment{
		ClientID:    clientID,
		BarberID:    barberID,
		ServiceID:   serviceID,
		ScheduledAt: scheduledAt.UTC(),
		Status:      model.AppointmentScheduled,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, apierror.Database(err)
	}
	return s.toResponse(ctx, appointment), nil
}

func (s *appointmentService) Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "appointment not found")
	}
	return s.toResponse(ctx, appointment), nil
}

func (s *appointmentService) List(ctx context.Context, filter dto.AppointmentFilter) ([]dto.AppointmentResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Database(err)
	}
	out := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		out = append(out, *s.toResponse(ctx, &appointments[i]))
	}
	return out, total, nil
}

// UpdateStatus moves an appointment between non-terminal states. Completion
// and cancelation have their own endpoints because of the comanda cascade.
func (s *appointmentService) UpdateStatus(ctx context.Context, principal Principal, id uuid.UUID, req dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	appointment, err := s.loadMutable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, appointment.ID, req.Status); err != nil {
		return nil, apierror.Database(err)
	}
	appointment.Status = req.Status
	return s.toResponse(ctx, appointment), nil
}

// Complete marks the appointment completed and, as a best-effort secondary
// effect, closes its open comanda with the default payment method. A failed
// cascade never rolls back the completion — it is logged and left for the
// register to settle manually.
func (s *appointmentService) Complete(ctx context.Context, principal Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := s.loadMutable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, appointment.ID, model.AppointmentCompleted); err != nil {
		return nil, apierror.Database(err)
	}
	appointment.Status = model.AppointmentCompleted

	comanda, err := s.comandas.FindByAppointmentID(ctx, appointment.ID)
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		// Nothing to cascade.
	case err != nil:
		log.Warn().Err(err).Str("appointment_id", id.String()).
			Msg("appointment: comanda lookup failed during completion")
	case comanda.Status == model.ComandaOpen:
		// Empty payment method resolves to the cash fallback.
		if _, closeErr := s.tabs.Close(ctx, principal, comanda.ID, dto.CloseComandaRequest{}); closeErr != nil {
			log.Warn().Err(closeErr).Str("comanda_id", comanda.ID.String()).
				Msg("appointment: comanda auto-close failed")
		}
	}

	return s.toResponse(ctx, appointment), nil
}

// Cancel marks the appointment canceled and cancels its comanda if one is
// still open. A closed comanda is left untouched — the sale already happened.
func (s *appointmentService) Cancel(ctx context.Context, principal Principal, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := s.loadMutable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, appointment.ID, model.AppointmentCanceled); err != nil {
		return nil, apierror.Database(err)
	}
	appointment.Status = model.AppointmentCanceled

	comanda, err := s.comandas.FindByAppointmentID(ctx, appointment.ID)
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		log.Warn().Err(err).Str("appointment_id", id.String()).
			Msg("appointment: comanda lookup failed during cancelation")
	case comanda.Status == model.ComandaOpen:
		if _, cancelErr := s.tabs.Cancel(ctx, principal, comanda.ID); cancelErr != nil {
			log.Warn().Err(cancelErr).Str("comanda_id", comanda.ID.String()).
				Msg("appointment: comanda auto-cancel failed")
		}
	}

	return s.toResponse(ctx, appointment), nil
}

// loadMutable fetches the appointment, rejects terminal states, and enforces
// the same ownership rule as comanda mutation.
func (s *appointmentService) loadMutable(ctx context.Context, principal Principal, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "appointment not found")
	}
	if appointment.Status == model.AppointmentCompleted || appointment.Status == model.AppointmentCanceled {
		return nil, apierror.Validation(fmt.Sprintf("appointment is already %s", appointment.Status))
	}
	if permErr := principal.canMutateComanda(appointment.BarberID); permErr != nil {
		return nil, permErr
	}
	return appointment, nil
}

func (s *appointmentService) toResponse(ctx context.Context, a *model.Appointment) *dto.AppointmentResponse {
	resp := &dto.AppointmentResponse{
		ID:          a.ID.String(),
		ClientID:    a.ClientID.String(),
		BarberID:    a.BarberID.String(),
		ServiceID:   a.ServiceID.String(),
		ScheduledAt: a.ScheduledAt.UTC().Format(time.RFC3339),
		Status:      a.Status,
		Notes:       a.Notes,
	}
	if comanda, err := s.comandas.FindByAppointmentID(ctx, a.ID); err == nil {
		id := comanda.ID.String()
		resp.ComandaID = &id
	}
	return resp
}
