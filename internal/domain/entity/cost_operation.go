package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostOperation es una línea de costo cargada a un pedido por un servicio de
// proveedor. CalculatedAmount es lo que emitió el motor de costeo al crear el
// pedido; ActualAmount puede divergir por ajuste manual y es lo que el
// OrderLedger suma al recalcular.
type CostOperation struct {
	ID               string
	OrderID          string
	VendorID         string
	VendorServiceID  string
	Quantity         decimal.Decimal // fraccional: el envío por KG cobra el peso total
	UnitPrice        decimal.Decimal
	CalculatedAmount decimal.Decimal
	ActualAmount     decimal.Decimal
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
