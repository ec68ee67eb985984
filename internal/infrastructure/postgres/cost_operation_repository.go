package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.CostOperationRepository = (*CostOperationRepo)(nil)

// CostOperationRepo implementación del puerto CostOperationRepository sobre PostgreSQL.
type CostOperationRepo struct {
	q Querier
}

// NewCostOperationRepository construye el adaptador de líneas de costo. Pasar pool o tx (Querier).
func NewCostOperationRepository(q Querier) *CostOperationRepo {
	return &CostOperationRepo{q: q}
}

const costOperationColumns = `id, order_id, vendor_id, vendor_service_id, quantity, unit_price, calculated_amount, actual_amount, description, created_at, updated_at`

// Create persiste una línea de costo.
func (r *CostOperationRepo) Create(op *entity.CostOperation) error {
	query := `
		INSERT INTO cost_operations (` + costOperationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.OrderID, op.VendorID, op.VendorServiceID, op.Quantity, op.UnitPrice,
		op.CalculatedAmount, op.ActualAmount, op.Description, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cost operation: %w", err)
	}
	return nil
}

// GetByID obtiene una línea de costo por ID. Devuelve nil (sin error) si no existe.
func (r *CostOperationRepo) GetByID(id string) (*entity.CostOperation, error) {
	query := `SELECT ` + costOperationColumns + ` FROM cost_operations WHERE id = $1`
	var op entity.CostOperation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&op.ID, &op.OrderID, &op.VendorID, &op.VendorServiceID, &op.Quantity, &op.UnitPrice,
		&op.CalculatedAmount, &op.ActualAmount, &op.Description, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cost operation: %w", err)
	}
	return &op, nil
}

// ListByOrder lista las líneas de costo de un pedido.
func (r *CostOperationRepo) ListByOrder(orderID string) ([]*entity.CostOperation, error) {
	query := `SELECT ` + costOperationColumns + ` FROM cost_operations WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list cost operations: %w", err)
	}
	defer rows.Close()

	var ops []*entity.CostOperation
	for rows.Next() {
		var op entity.CostOperation
		if err := rows.Scan(&op.ID, &op.OrderID, &op.VendorID, &op.VendorServiceID, &op.Quantity, &op.UnitPrice, &op.CalculatedAmount, &op.ActualAmount, &op.Description, &op.CreatedAt, &op.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cost operation: %w", err)
		}
		ops = append(ops, &op)
	}
	return ops, rows.Err()
}

// SumActualByOrder suma actual_amount de las líneas del pedido.
// El recálculo de la instantánea usa esta suma, no calculated_amount.
func (r *CostOperationRepo) SumActualByOrder(orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(actual_amount), 0) FROM cost_operations WHERE order_id = $1`, orderID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum actual cost: %w", err)
	}
	return total, nil
}

// UpdateActualAmount ajusta manualmente el monto real de una línea.
func (r *CostOperationRepo) UpdateActualAmount(id string, amount decimal.Decimal) error {
	query := `UPDATE cost_operations SET actual_amount = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, amount)
	if err != nil {
		return fmt.Errorf("update actual amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
