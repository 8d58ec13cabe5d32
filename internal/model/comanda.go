package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Comanda states. Closed and canceled are terminal: no item mutation, no
// re-close, no re-cancel.
const (
	ComandaOpen     = "open"
	ComandaClosed   = "closed"
	ComandaCanceled = "canceled"
)

// Canonical payment methods (see payment.Resolve).
const (
	PaymentCash       = "cash"
	PaymentCreditCard = "credit_card"
	PaymentDebitCard  = "debit_card"
	PaymentPix        = "pix"
)

// Comanda is the running tab tied 1:1 to an appointment. Total is always the
// recomputed sum of item totals, never incremented in place. Commission
// totals are written asynchronously by the commission calculator after close.
type Comanda struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ClientID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Status        string    `gorm:"type:varchar(20);not null;default:'open'"`

	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Discount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Taxes      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FinalTotal decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	PaymentMethod *string    `gorm:"type:varchar(20)"`
	CashierID     *uuid.UUID `gorm:"type:uuid"`
	ClosedAt      *time.Time

	TotalServicesCommission decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalProductsCommission decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalCommission         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Appointment *Appointment  `gorm:"foreignKey:AppointmentID"`
	Items       []ComandaItem `gorm:"foreignKey:ComandaID"`
}

// ComandaItem is a line on the tab: exactly one of ServiceID / ProductID is
// set, never both, never neither. Created and deleted only while the comanda
// is open. CommissionValue / CommissionPercentage are filled by the
// commission engine.
type ComandaItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComandaID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServiceID *uuid.UUID `gorm:"type:uuid"`
	ProductID *uuid.UUID `gorm:"type:uuid"`

	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	CommissionValue      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	CreatedAt time.Time

	Service *BarberService `gorm:"foreignKey:ServiceID"`
	Product *Product       `gorm:"foreignKey:ProductID"`
}

// IsService reports whether the item bills a catalog service (as opposed to
// a retail product).
func (i *ComandaItem) IsService() bool { return i.ServiceID != nil }
