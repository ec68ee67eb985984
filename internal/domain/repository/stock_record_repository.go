package repository

import "github.com/jhoicas/fulfillment-api/internal/domain/entity"

// StockRecordRepository define el puerto para las existencias por
// (producto, ubicación, lote). Usado dentro de transacciones para
// garantizar consistencia.
type StockRecordRepository interface {
	// Get devuelve nil (sin error) cuando no existe el registro.
	Get(productID, locationID, batchNumber string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, locationID, batchNumber string) (*entity.StockRecord, error)
	Upsert(record *entity.StockRecord) error
	// SumQuantityAtLocation suma las cantidades de todos los registros de la
	// ubicación; alimenta la derivación de estado FREE/OCCUPIED.
	SumQuantityAtLocation(locationID string) (int64, error)
	ListByLocation(locationID string) ([]*entity.StockRecord, error)
	ListByProduct(productID string) ([]*entity.StockRecord, error)
}
