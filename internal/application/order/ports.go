package order

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del ledger de pedidos atados a esa tx. Pedido, líneas,
// operaciones de costo e ingreso se persisten como una sola unidad: si algo
// falla, nada queda escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		costRepo repository.CostOperationRepository,
		incomeRepo repository.IncomeOperationRepository,
	) error) error
}
