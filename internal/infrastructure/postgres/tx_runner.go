package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/fulfillment-api/internal/application/order"
	"github.com/jhoicas/fulfillment-api/internal/application/stock"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)
var _ order.TxRunner = (*OrderTxRunner)(nil)

// TxRunner ejecuta callbacks del ledger de stock dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los fallos de serialización y deadlocks se traducen a ErrTransactionConflict
// para que el cliente sepa que puede reintentar.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	locationRepo repository.StorageLocationRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRecordRepository(tx)
	locationRepo := NewStorageLocationRepository(tx)
	movRepo := NewMovementRepository(tx)

	if err := fn(stockRepo, locationRepo, movRepo); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrTransactionConflict
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrTransactionConflict
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// OrderTxRunner ejecuta callbacks del ledger de pedidos dentro de una transacción.
type OrderTxRunner struct {
	pool *pgxpool.Pool
}

// NewOrderTxRunner construye el runner con el pool.
func NewOrderTxRunner(pool *pgxpool.Pool) *OrderTxRunner {
	return &OrderTxRunner{pool: pool}
}

// Run inicia una transacción con los repos del ledger de pedidos.
func (r *OrderTxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	costRepo repository.CostOperationRepository,
	incomeRepo repository.IncomeOperationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderRepo := NewOrderRepository(tx)
	costRepo := NewCostOperationRepository(tx)
	incomeRepo := NewIncomeOperationRepository(tx)

	if err := fn(orderRepo, costRepo, incomeRepo); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrTransactionConflict
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrTransactionConflict
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
