package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Roles known to the system. Clients authenticate through the booking app
// and are never allowed to mutate comandas or stock.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleBarber  = "barber"
	RoleClient  = "client"
)

// User is a staff account (or a client account created by the booking app).
// CommissionRate is the percentage the commission calculator applies to a
// barber's item groups; how that rate is configured is outside this service.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string    `gorm:"not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	PasswordHash   string    `gorm:"not null"`
	Role           string    `gorm:"type:varchar(20);not null;default:'barber'"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
