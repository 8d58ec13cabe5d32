package dto

type CreateAppointmentRequest struct {
	ClientID    string  `json:"client_id"    validate:"required,uuid"`
	BarberID    string  `json:"barber_id"    validate:"required,uuid"`
	ServiceID   string  `json:"service_id"   validate:"required,uuid"`
	ScheduledAt string  `json:"scheduled_at" validate:"required"` // RFC 3339
	Notes       *string `json:"notes"        validate:"omitempty,max=500"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed waiting in_progress absent"`
}

type AppointmentResponse struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	BarberID    string  `json:"barber_id"`
	ServiceID   string  `json:"service_id"`
	ScheduledAt string  `json:"scheduled_at"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	// ComandaID is set when a comanda has been opened for this appointment.
	ComandaID *string `json:"comanda_id,omitempty"`
}

type AppointmentFilter struct {
	BarberID string `form:"barber_id" validate:"omitempty,uuid"`
	Status   string `form:"status"`
	Date     string `form:"date"` // YYYY-MM-DD; empty = all
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}
