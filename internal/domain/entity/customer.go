package entity

import "time"

// Customer representa un cliente (opcional en una venta).
type Customer struct {
	ID        string
	Name      string
	Document  string
	Phone     string
	CreatedAt time.Time
}
