package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types. Purchase, return and adjustment carry the caller's
// signed quantity as-is; sale and loss always subtract.
const (
	MovementPurchase   = "purchase"
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
	MovementReturn     = "return"
	MovementLoss       = "loss"
)

// StockMovement is an append-only ledger entry: the persisted Quantity is the
// signed delta actually applied, not the raw input. Movements are never
// updated or deleted — corrections are new adjustment entries.
type StockMovement struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity     int        `gorm:"not null"`
	MovementType string     `gorm:"type:varchar(20);not null"`
	StockBefore  int        `gorm:"not null"`
	StockAfter   int        `gorm:"not null"`
	ReferenceID  *uuid.UUID `gorm:"type:uuid"`
	Notes        *string
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
