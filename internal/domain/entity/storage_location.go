package entity

import "time"

// Estados de una ubicación de almacenaje.
// El estado es DERIVADO: OCCUPIED si y solo si la suma de cantidades de los
// StockRecord en la ubicación es > 0 tras la última mutación. Nunca se
// asigna directamente desde fuera del ledger.
const (
	LocationStatusFree     = "FREE"
	LocationStatusOccupied = "OCCUPIED"
)

// StorageLocation representa una celda/posición dentro de un almacén.
type StorageLocation struct {
	ID          string
	WarehouseID string
	Code        string
	Status      string // FREE u OCCUPIED, derivado
	MaxItems    int64
	MaxWeightKg int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusForTotal devuelve el estado derivado para una cantidad total en la ubicación.
func StatusForTotal(total int64) string {
	if total > 0 {
		return LocationStatusOccupied
	}
	return LocationStatusFree
}
