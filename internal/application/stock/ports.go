package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la frontera de atomicidad del ledger:
// ningún lector observa un traslado a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		locationRepo repository.StorageLocationRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// FinancialEntryWriter registra un asiento en el libro mayor general
// (colaborador externo). Para el ledger de stock es fire-and-forget: se
// invoca después del commit y su fallo no revierte la operación.
type FinancialEntryWriter interface {
	Write(ctx context.Context, amount decimal.Decimal, description string) error
}
