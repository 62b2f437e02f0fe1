package purchases

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que toca una compra: kardex, stock, catálogo (costo),
// cabecera/líneas y libro contable.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		purchaseRepo repository.PurchaseRepository,
		acctRepo repository.AccountingRepository,
	) error) error
}
