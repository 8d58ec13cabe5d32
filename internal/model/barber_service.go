package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BarberService is a catalog entry for a chargeable service (cut, beard, …).
type BarberService struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string          `gorm:"index;not null"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DurationMinutes int             `gorm:"not null;default:30"`
	Active          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides GORM's default pluralization (barber_services → services).
func (BarberService) TableName() string { return "services" }
