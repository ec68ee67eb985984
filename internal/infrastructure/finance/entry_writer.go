package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/application/stock"
	"github.com/jhoicas/fulfillment-api/internal/infrastructure/postgres"
)

var _ stock.FinancialEntryWriter = (*EntryWriter)(nil)

// EntryWriter registra asientos del libro mayor en PostgreSQL.
// Se invoca después del commit del ledger de stock: escribe en su propia
// conexión, nunca dentro de la transacción de la baja.
type EntryWriter struct {
	q postgres.Querier
}

// NewEntryWriter construye el escritor de asientos sobre el pool.
func NewEntryWriter(q postgres.Querier) *EntryWriter {
	return &EntryWriter{q: q}
}

// Write inserta un asiento con el monto (negativo para pérdidas) y su descripción.
func (w *EntryWriter) Write(ctx context.Context, amount decimal.Decimal, description string) error {
	query := `
		INSERT INTO financial_entries (id, amount, description, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := w.q.Exec(ctx, query, uuid.New().String(), amount, description, time.Now())
	if err != nil {
		return fmt.Errorf("insert financial entry: %w", err)
	}
	return nil
}
