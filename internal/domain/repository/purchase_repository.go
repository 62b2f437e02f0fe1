package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// PurchaseRepository persistencia de compras.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateLine(line *entity.PurchaseLine) error
	GetByID(id string) (*entity.Purchase, error)
	GetLines(purchaseID string) ([]*entity.PurchaseLine, error)
}
