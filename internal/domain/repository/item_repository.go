package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ItemRepository catálogo de productos, insumos y servicios.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	List(limit, offset int) ([]*entity.Item, error)
	// UpdateCost sobreescribe el costo del ítem (política last-cost).
	UpdateCost(id string, cost decimal.Decimal) error
}
