package entity

import "time"

// Supplier representa un proveedor de mercancía e insumos.
type Supplier struct {
	ID        string
	Name      string
	Document  string
	Phone     string
	CreatedAt time.Time
}
