package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// IncomeOperationRepository define el puerto para las facturas/cobros de un
// pedido. GetForUpdate bloquea la fila antes de incrementar paid_amount.
type IncomeOperationRepository interface {
	Create(op *entity.IncomeOperation) error
	GetByID(id string) (*entity.IncomeOperation, error)
	GetForUpdate(id string) (*entity.IncomeOperation, error)
	Update(op *entity.IncomeOperation) error
	ListByOrder(orderID string) ([]*entity.IncomeOperation, error)
	SumPaidByOrder(orderID string) (decimal.Decimal, error)
}
