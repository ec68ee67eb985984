package entity

import "time"

// StockRecord representa la existencia de un producto en una ubicación,
// por lote. Clave única: (ProductID, StorageLocationID, BatchNumber).
// Invariante: 0 <= AvailableQty <= Quantity.
// Solo muta a través de las operaciones del StockLedger.
type StockRecord struct {
	ID                string
	ProductID         string
	StorageLocationID string
	BatchNumber       string // "" cuando no hay lote
	Quantity          int64
	AvailableQty      int64
	LastMovementAt    time.Time
	CreatedAt         time.Time
}
