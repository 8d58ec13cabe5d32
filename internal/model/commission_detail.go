package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CommissionTypePercentage = "percentage"
	CommissionTypeFixed      = "fixed"

	CommissionPending = "pending"
	CommissionPaid    = "paid"
)

// CommissionDetail is the per-item, per-employee commission record produced
// by the commission calculator when a comanda closes. The core reads these
// but never mutates them.
type CommissionDetail struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComandaItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type          string          `gorm:"type:varchar(20);not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CalculatedValue decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt     time.Time

	Item *ComandaItem `gorm:"foreignKey:ComandaItemID"`
}
