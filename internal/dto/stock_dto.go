package dto

// RecordMovementRequest is the body of POST /stock-movements. Quantity must
// be a non-zero integer; the sign actually applied to stock is derived from
// the movement type, not taken verbatim.
type RecordMovementRequest struct {
	ProductID    string  `json:"product_id"    validate:"required,uuid"`
	Quantity     int     `json:"quantity"      validate:"required"`
	MovementType string  `json:"movement_type" validate:"required,oneof=purchase sale adjustment return loss"`
	ReferenceID  *string `json:"reference_id"  validate:"omitempty,uuid"`
	Notes        *string `json:"notes"         validate:"omitempty,max=500"`
}

type StockMovementResponse struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"` // signed delta as persisted
	MovementType string  `json:"movement_type"`
	StockBefore  int     `json:"stock_before"`
	StockAfter   int     `json:"stock_after"`
	ReferenceID  *string `json:"reference_id,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// StockMovementFilter is bound from the query string of GET /stock-movements.
type StockMovementFilter struct {
	ProductID    string `form:"product_id"    validate:"omitempty,uuid"`
	MovementType string `form:"movement_type" validate:"omitempty,oneof=purchase sale adjustment return loss"`
	Page         int    `form:"page,default=1"    validate:"min=1"`
	Limit        int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// StockAlertResponse lists a product sitting below its minimum threshold.
type StockAlertResponse struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	StockMinimum  int    `json:"stock_minimum"`
}
