package dto

import (
	"time"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// ReceiveStockRequest body para POST /api/stock/receive.
type ReceiveStockRequest struct {
	ProductID    string `json:"product_id"`
	ToLocationID string `json:"to_location_id"`
	Quantity     int64  `json:"quantity"`
	BatchNumber  string `json:"batch_number,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	ProductID      string `json:"product_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int64  `json:"quantity"`
	BatchNumber    string `json:"batch_number,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// WriteOffStockRequest body para POST /api/stock/write-off.
type WriteOffStockRequest struct {
	ProductID   string `json:"product_id"`
	LocationID  string `json:"location_id"`
	Quantity    int64  `json:"quantity"`
	Reason      string `json:"reason"`
	BatchNumber string `json:"batch_number,omitempty"`
}

// StockRecordResponse registro de existencias resultante de una mutación.
type StockRecordResponse struct {
	ProductID         string    `json:"product_id"`
	StorageLocationID string    `json:"storage_location_id"`
	BatchNumber       string    `json:"batch_number,omitempty"`
	Quantity          int64     `json:"quantity"`
	AvailableQty      int64     `json:"available_qty"`
	LastMovementAt    time.Time `json:"last_movement_at"`
}

// TransferStockResponse registros de origen y destino tras un traslado.
type TransferStockResponse struct {
	From StockRecordResponse `json:"from"`
	To   StockRecordResponse `json:"to"`
}

// ToStockRecordResponse mapea la entidad al DTO.
func ToStockRecordResponse(r *entity.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ProductID:         r.ProductID,
		StorageLocationID: r.StorageLocationID,
		BatchNumber:       r.BatchNumber,
		Quantity:          r.Quantity,
		AvailableQty:      r.AvailableQty,
		LastMovementAt:    r.LastMovementAt,
	}
}
