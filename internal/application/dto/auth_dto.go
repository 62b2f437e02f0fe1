package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT más los datos del trabajador autenticado.
type LoginResponse struct {
	Token  string         `json:"token"`
	Worker WorkerResponse `json:"worker"`
}

// RegisterWorkerRequest body para POST /api/workers (solo admin).
type RegisterWorkerRequest struct {
	BranchID          string          `json:"branch_id" validate:"required"`
	Name              string          `json:"name" validate:"required"`
	Email             string          `json:"email" validate:"required,email"`
	Password          string          `json:"password" validate:"required,min=8"`
	Role              string          `json:"role" validate:"omitempty,oneof=admin trabajador"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
}

// WorkerResponse representación pública de un trabajador (sin hash).
type WorkerResponse struct {
	ID                string          `json:"id"`
	BranchID          string          `json:"branch_id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Role              string          `json:"role"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}
