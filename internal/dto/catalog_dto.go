package dto

import "github.com/shopspring/decimal"

// ─── Products ────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=2"`
	Barcode      *string         `json:"barcode"       validate:"omitempty,min=4"`
	Price        decimal.Decimal `json:"price"         validate:"min=0"`
	StockMinimum int             `json:"stock_minimum" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=2"`
	Barcode      *string         `json:"barcode"       validate:"omitempty,min=4"`
	Price        decimal.Decimal `json:"price"         validate:"min=0"`
	StockMinimum int             `json:"stock_minimum" validate:"min=0"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Barcode       *string         `json:"barcode,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	StockMinimum  int             `json:"stock_minimum"`
	Active        bool            `json:"active"`
}

type ProductFilter struct {
	Name   string `form:"name"`
	Active string `form:"active"` // true (default) | false | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Services ────────────────────────────────────────────────────────────────

type CreateServiceRequest struct {
	Name            string          `json:"name"             validate:"required,min=2"`
	Price           decimal.Decimal `json:"price"            validate:"min=0"`
	DurationMinutes int             `json:"duration_minutes" validate:"min=5,max=480"`
}

type ServiceResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	Active          bool            `json:"active"`
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name  string  `json:"name"  validate:"required,min=2"`
	Phone *string `json:"phone" validate:"omitempty,min=8"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type CustomerResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}
