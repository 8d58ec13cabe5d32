package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Completed and canceled cascade into the linked
// comanda (close / cancel respectively).
const (
	AppointmentScheduled  = "scheduled"
	AppointmentConfirmed  = "confirmed"
	AppointmentWaiting    = "waiting"
	AppointmentInProgress = "in_progress"
	AppointmentAbsent     = "absent"
	AppointmentCompleted  = "completed"
	AppointmentCanceled   = "canceled"
)

// Appointment links a client with a barber at a scheduled time. At most one
// comanda is ever opened for an appointment.
type Appointment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BarberID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID   uuid.UUID `gorm:"type:uuid;not null"`
	ScheduledAt time.Time `gorm:"not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;default:'scheduled'"`
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Client  *Customer      `gorm:"foreignKey:ClientID"`
	Barber  *User          `gorm:"foreignKey:BarberID"`
	Service *BarberService `gorm:"foreignKey:ServiceID"`
}
