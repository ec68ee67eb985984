package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación del puerto StockRecordRepository sobre PostgreSQL.
// La clave natural es (product_id, storage_location_id, batch_number); el
// lote vacío se guarda como string vacío, no NULL, para que el UNIQUE aplique.
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordColumns = `id, product_id, storage_location_id, batch_number, quantity, available_qty, last_movement_at, created_at`

// Get devuelve el registro de existencias o nil (sin error) si no existe.
func (r *StockRecordRepo) Get(productID, locationID, batchNumber string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE product_id = $1 AND storage_location_id = $2 AND batch_number = $3`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, locationID, batchNumber))
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// Protege la secuencia leer-verificar-escribir contra retiros concurrentes.
func (r *StockRecordRepo) GetForUpdate(productID, locationID, batchNumber string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE product_id = $1 AND storage_location_id = $2 AND batch_number = $3
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, locationID, batchNumber))
}

// Upsert inserta o actualiza las cantidades por la clave natural.
func (r *StockRecordRepo) Upsert(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (id, product_id, storage_location_id, batch_number, quantity, available_qty, last_movement_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id, storage_location_id, batch_number)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              available_qty = EXCLUDED.available_qty,
		              last_movement_at = EXCLUDED.last_movement_at`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.ProductID, record.StorageLocationID, record.BatchNumber,
		record.Quantity, record.AvailableQty, record.LastMovementAt, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}
	return nil
}

// SumQuantityAtLocation suma las cantidades de todos los registros de la
// ubicación. Cero cuando no hay registros.
func (r *StockRecordRepo) SumQuantityAtLocation(locationID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_records WHERE storage_location_id = $1`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, locationID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum quantity at location: %w", err)
	}
	return total, nil
}

// ListByLocation lista los registros de una ubicación.
func (r *StockRecordRepo) ListByLocation(locationID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE storage_location_id = $1
		ORDER BY product_id, batch_number`
	return r.list(query, locationID)
}

// ListByProduct lista los registros de un producto en todas las ubicaciones.
func (r *StockRecordRepo) ListByProduct(productID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE product_id = $1
		ORDER BY storage_location_id, batch_number`
	return r.list(query, productID)
}

func (r *StockRecordRepo) list(query string, arg any) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()

	var records []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ID, &s.ProductID, &s.StorageLocationID, &s.BatchNumber, &s.Quantity, &s.AvailableQty, &s.LastMovementAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		records = append(records, &s)
	}
	return records, rows.Err()
}

func (r *StockRecordRepo) scanOne(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ID, &s.ProductID, &s.StorageLocationID, &s.BatchNumber, &s.Quantity, &s.AvailableQty, &s.LastMovementAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &s, nil
}
