package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialEntry es un asiento del libro mayor general (ej. pérdida por baja
// de stock). Lo escribe el FinancialEntryWriter fuera del contrato atómico
// del ledger de stock.
type FinancialEntry struct {
	ID          string
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}
