package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido de cliente.
const (
	OrderStatusNew       = "NEW"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Order representa un pedido de cliente con su instantánea financiera.
// TotalIncome, ActualCost, Profit y MarginPercent son CACHÉS derivados:
// siempre recomputables desde las sumas de CostOperation e IncomeOperation,
// nunca la fuente de verdad.
type Order struct {
	ID            string
	ClientID      string
	Status        string
	TotalIncome   decimal.Decimal // suma de paid_amount de las operaciones de ingreso
	ActualCost    decimal.Decimal // suma de actual_amount de las operaciones de costo
	Profit        decimal.Decimal // TotalIncome - ActualCost
	MarginPercent decimal.Decimal // Profit / TotalIncome * 100; 0 si TotalIncome = 0
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem es una línea del pedido. WeightKg y VolumeM3 son totales de la
// línea (no por unidad) y alimentan el motor de costeo.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string // opcional: líneas libres no referencian producto
	Name      string
	Quantity  int64
	WeightKg  decimal.Decimal
	VolumeM3  decimal.Decimal
}
