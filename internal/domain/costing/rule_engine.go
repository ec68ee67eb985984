package costing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// LineItem es una línea de pedido vista por el motor de costeo.
// WeightKg y VolumeM3 son totales de la línea, no por unidad.
type LineItem struct {
	Quantity int64
	WeightKg decimal.Decimal
	VolumeM3 decimal.Decimal
}

// CostLine es una línea de costo candidata emitida por el motor.
type CostLine struct {
	VendorID         string
	VendorServiceID  string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	CalculatedAmount decimal.Decimal
	Description      string
}

// Match evalúa cada servicio activo de forma independiente contra los
// agregados del pedido y devuelve todas las líneas aplicables, en el orden
// de los servicios de entrada. No deduplica ni elige proveedor: varios
// proveedores con PICKING/ORDER producen una línea cada uno.
//
// Reglas:
//   - PICKING/ORDER y PACKING/ORDER: siempre, cantidad 1.
//   - PICKING/PIECE: si hay piezas, cantidad = total de piezas.
//   - SHIPPING/ORDER: aplica el tramo de peso codificado en el NOMBRE del
//     servicio (ver matchesWeightBracket), cantidad 1.
//   - SHIPPING/KG: si hay peso, cantidad = peso total en kg.
//   - STORAGE: nunca aplica aquí (se factura en ciclo mensual aparte).
func Match(services []*entity.VendorService, items []LineItem) []CostLine {
	var totalPieces int64
	totalWeight := decimal.Zero
	for _, it := range items {
		totalPieces += it.Quantity
		totalWeight = totalWeight.Add(it.WeightKg)
	}

	var lines []CostLine
	for _, svc := range services {
		if !svc.IsActive {
			continue
		}
		qty, ok := serviceQuantity(svc, totalPieces, totalWeight)
		if !ok {
			continue
		}
		lines = append(lines, CostLine{
			VendorID:         svc.VendorID,
			VendorServiceID:  svc.ID,
			Quantity:         qty,
			UnitPrice:        svc.Price,
			CalculatedAmount: qty.Mul(svc.Price),
			Description:      fmt.Sprintf("%s: %s", svc.VendorName, svc.Name),
		})
	}
	return lines
}

// Total suma los montos calculados de las líneas.
func Total(lines []CostLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.CalculatedAmount)
	}
	return sum
}

func serviceQuantity(svc *entity.VendorService, totalPieces int64, totalWeight decimal.Decimal) (decimal.Decimal, bool) {
	switch svc.Type {
	case entity.ServiceTypePicking:
		switch svc.Unit {
		case entity.ServiceUnitOrder:
			return decimal.NewFromInt(1), true
		case entity.ServiceUnitPiece:
			if totalPieces > 0 {
				return decimal.NewFromInt(totalPieces), true
			}
		}
	case entity.ServiceTypePacking:
		if svc.Unit == entity.ServiceUnitOrder {
			return decimal.NewFromInt(1), true
		}
	case entity.ServiceTypeShipping:
		switch svc.Unit {
		case entity.ServiceUnitOrder:
			if matchesWeightBracket(svc.Name, totalWeight) {
				return decimal.NewFromInt(1), true
			}
		case entity.ServiceUnitKg:
			if totalWeight.GreaterThan(decimal.Zero) {
				return totalWeight, true
			}
		}
	}
	// STORAGE, RECEIVING, LABELING, RETURNS: sin regla por pedido.
	return decimal.Zero, false
}

// matchesWeightBracket decide si el peso total cae en el tramo codificado en
// el nombre del servicio: "1-5" -> (1,5], "5-10" -> (5,10], un "10" suelto ->
// (10,∞), cualquier otro nombre -> [0,1]. El orden importa: "5-10" contiene
// "10" y debe evaluarse antes del tramo residual.
//
// Contrato heredado del diseño original: renombrar el servicio cambia (o
// rompe) el tramo en silencio. Se reproduce tal cual como contrato testeable;
// reemplazarlo por un rango numérico explícito queda como pregunta abierta.
func matchesWeightBracket(name string, weight decimal.Decimal) bool {
	one := decimal.NewFromInt(1)
	five := decimal.NewFromInt(5)
	ten := decimal.NewFromInt(10)
	switch {
	case strings.Contains(name, "1-5"):
		return weight.GreaterThan(one) && weight.LessThanOrEqual(five)
	case strings.Contains(name, "5-10"):
		return weight.GreaterThan(five) && weight.LessThanOrEqual(ten)
	case strings.Contains(name, "10"):
		return weight.GreaterThan(ten)
	default:
		return weight.LessThanOrEqual(one)
	}
}
