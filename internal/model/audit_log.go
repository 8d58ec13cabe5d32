package model

import (
	"time"

	"github.com/google/uuid"
)

const AuditLowStock = "low_stock"

// AuditLog records best-effort operational events (low-stock alerts). A
// failed audit write never fails the primary operation that triggered it.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Event     string     `gorm:"type:varchar(40);not null;index"`
	Entity    string     `gorm:"type:varchar(40);not null"`
	EntityID  *uuid.UUID `gorm:"type:uuid"`
	Message   string     `gorm:"not null"`
	CreatedAt time.Time
}
