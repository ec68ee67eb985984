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

var _ repository.IncomeOperationRepository = (*IncomeOperationRepo)(nil)

// IncomeOperationRepo implementación del puerto IncomeOperationRepository sobre PostgreSQL.
type IncomeOperationRepo struct {
	q Querier
}

// NewIncomeOperationRepository construye el adaptador de facturas/cobros. Pasar pool o tx (Querier).
func NewIncomeOperationRepository(q Querier) *IncomeOperationRepo {
	return &IncomeOperationRepo{q: q}
}

const incomeOperationColumns = `id, order_id, client_id, invoice_amount, paid_amount, payment_method, payment_date, created_at, updated_at`

// Create persiste una factura/cobro.
func (r *IncomeOperationRepo) Create(op *entity.IncomeOperation) error {
	query := `
		INSERT INTO income_operations (` + incomeOperationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.OrderID, op.ClientID, op.InvoiceAmount, op.PaidAmount,
		op.PaymentMethod, op.PaymentDate, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert income operation: %w", err)
	}
	return nil
}

// GetByID obtiene una operación de ingreso por ID. Devuelve nil (sin error) si no existe.
func (r *IncomeOperationRepo) GetByID(id string) (*entity.IncomeOperation, error) {
	query := `SELECT ` + incomeOperationColumns + ` FROM income_operations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la operación y bloquea la fila (SELECT FOR UPDATE).
// Protege el incremento de paid_amount contra pagos concurrentes.
func (r *IncomeOperationRepo) GetForUpdate(id string) (*entity.IncomeOperation, error) {
	query := `SELECT ` + incomeOperationColumns + ` FROM income_operations WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update actualiza paid_amount, método y fecha de pago.
func (r *IncomeOperationRepo) Update(op *entity.IncomeOperation) error {
	query := `
		UPDATE income_operations
		SET paid_amount = $2, payment_method = $3, payment_date = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		op.ID, op.PaidAmount, op.PaymentMethod, op.PaymentDate, op.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update income operation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrder lista las operaciones de ingreso de un pedido.
func (r *IncomeOperationRepo) ListByOrder(orderID string) ([]*entity.IncomeOperation, error) {
	query := `SELECT ` + incomeOperationColumns + ` FROM income_operations WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list income operations: %w", err)
	}
	defer rows.Close()

	var ops []*entity.IncomeOperation
	for rows.Next() {
		var op entity.IncomeOperation
		if err := rows.Scan(&op.ID, &op.OrderID, &op.ClientID, &op.InvoiceAmount, &op.PaidAmount, &op.PaymentMethod, &op.PaymentDate, &op.CreatedAt, &op.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan income operation: %w", err)
		}
		ops = append(ops, &op)
	}
	return ops, rows.Err()
}

// SumPaidByOrder suma paid_amount de las operaciones del pedido.
func (r *IncomeOperationRepo) SumPaidByOrder(orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(paid_amount), 0) FROM income_operations WHERE order_id = $1`, orderID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum paid amount: %w", err)
	}
	return total, nil
}

func (r *IncomeOperationRepo) scanOne(row pgx.Row) (*entity.IncomeOperation, error) {
	var op entity.IncomeOperation
	err := row.Scan(&op.ID, &op.OrderID, &op.ClientID, &op.InvoiceAmount, &op.PaidAmount, &op.PaymentMethod, &op.PaymentDate, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get income operation: %w", err)
	}
	return &op, nil
}
