package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles de trabajador.
const (
	RoleAdmin  = "admin"
	RoleWorker = "trabajador"
)

// Worker representa un empleado que atiende ventas en una sucursal.
// CommissionPercent es el porcentaje del total de cada venta que se le paga
// como comisión (ej. 15 = 15%).
type Worker struct {
	ID                string
	BranchID          string
	Name              string
	Email             string
	PasswordHash      string
	Role              string // admin | trabajador
	CommissionPercent decimal.Decimal
	Status            string // active | inactive
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
