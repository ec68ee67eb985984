package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// CostOperationRepository define el puerto para las líneas de costo de un
// pedido. SumActualByOrder suma actual_amount (no calculated_amount): los
// ajustes manuales mandan al recalcular.
type CostOperationRepository interface {
	Create(op *entity.CostOperation) error
	GetByID(id string) (*entity.CostOperation, error)
	ListByOrder(orderID string) ([]*entity.CostOperation, error)
	SumActualByOrder(orderID string) (decimal.Decimal, error)
	UpdateActualAmount(id string, amount decimal.Decimal) error
}
