package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeOperation es una factura/cobro contra un pedido. Un pedido puede
// tener varias (pagos en cuotas); el OrderLedger suma PaidAmount de todas.
// No se limita PaidAmount contra InvoiceAmount: el sobrepago es representable.
type IncomeOperation struct {
	ID            string
	OrderID       string
	ClientID      string
	InvoiceAmount decimal.Decimal
	PaidAmount    decimal.Decimal
	PaymentMethod string     // "" si no se ha informado
	PaymentDate   *time.Time // nil hasta el primer pago
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
