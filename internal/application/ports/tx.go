package ports

import (
	"context"

	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Movements repository.StockMovementRepository
	Stock     repository.StockRepository
	Products  repository.ProductRepository
	Sales     repository.SalesRepository
	Imports   repository.ImportRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda nada escrito.
//
// Dentro de la transacción, GetForUpdate sobre el saldo de un par (producto, almacén) serializa
// a todos los que escriben ese par; es la única forma de mutar saldos.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
