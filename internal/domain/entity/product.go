package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un SKU almacenable en el centro de fulfillment.
// UnitCost alimenta el asiento contable de las bajas (write-off);
// UnitWeightKg es informativo para planeación, no para el costeo por pedido.
type Product struct {
	ID           string
	SKU          string
	Name         string
	UnitCost     decimal.Decimal
	UnitWeightKg decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
