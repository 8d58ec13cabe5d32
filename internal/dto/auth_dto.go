package dto

import "github.com/shopspring/decimal"

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Name           string          `json:"name"            validate:"required,min=2"`
	Email          string          `json:"email"           validate:"required,email"`
	Password       string          `json:"password"        validate:"required,min=6"`
	Role           string          `json:"role"            validate:"required,oneof=admin cashier barber client"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"min=0,max=100"`
}

type UpdateUserRequest struct {
	Name           string          `json:"name"            validate:"required,min=2"`
	Role           string          `json:"role"            validate:"required,oneof=admin cashier barber client"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"min=0,max=100"`
	Password       *string         `json:"password"        validate:"omitempty,min=6"`
}

type UserResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Active         bool            `json:"active"`
}
