package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// CustomerRepository clientes (lookup para ventas).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
}

// SupplierRepository proveedores (lookup para compras).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
}
