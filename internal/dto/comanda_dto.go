package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OpenComandaRequest opens the tab for an appointment. At most one comanda
// per appointment — a second open attempt is a CONFLICT.
type OpenComandaRequest struct {
	AppointmentID string          `json:"appointment_id" validate:"required,uuid"`
	Discount      decimal.Decimal `json:"discount"       validate:"min=0"`
	Taxes         decimal.Decimal `json:"taxes"          validate:"min=0"`
}

// AddItemRequest adds a line to an open comanda. Exactly one of service_id /
// product_id must be present — the XOR is enforced in the service because
// validator tags cannot express it.
type AddItemRequest struct {
	ServiceID *string         `json:"service_id" validate:"omitempty,uuid"`
	ProductID *string         `json:"product_id" validate:"omitempty,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
}

// CloseComandaRequest closes the tab. final_total is optional; when present
// it must reconcile with the server-side computation after rounding.
type CloseComandaRequest struct {
	PaymentMethod string           `json:"payment_method" validate:"required"`
	FinalTotal    *decimal.Decimal `json:"final_total"    validate:"omitempty"`
}

// ComandaFilter is bound from the query string of GET /comandas.
type ComandaFilter struct {
	Status string `form:"status"` // open | closed | canceled | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ComandaItemResponse struct {
	ID                   string          `json:"id"`
	ServiceID            *string         `json:"service_id,omitempty"`
	ProductID            *string         `json:"product_id,omitempty"`
	Description          string          `json:"description"`
	Quantity             int             `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	TotalPrice           decimal.Decimal `json:"total_price"`
	CommissionValue      decimal.Decimal `json:"commission_value"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
}

type ComandaResponse struct {
	ID            string                `json:"id"`
	AppointmentID string                `json:"appointment_id"`
	ClientID      string                `json:"client_id"`
	Status        string                `json:"status"`
	Total         decimal.Decimal       `json:"total"`
	Discount      decimal.Decimal       `json:"discount"`
	Taxes         decimal.Decimal       `json:"taxes"`
	FinalTotal    decimal.Decimal       `json:"final_total"`
	PaymentMethod *string               `json:"payment_method,omitempty"`
	CashierID     *string               `json:"cashier_id,omitempty"`
	ClosedAt      *string               `json:"closed_at,omitempty"`
	Items         []ComandaItemResponse `json:"items"`

	TotalServicesCommission decimal.Decimal `json:"total_services_commission"`
	TotalProductsCommission decimal.Decimal `json:"total_products_commission"`
	TotalCommission         decimal.Decimal `json:"total_commission"`
}

// ListMeta is the pagination block returned in the envelope meta field.
type ListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
