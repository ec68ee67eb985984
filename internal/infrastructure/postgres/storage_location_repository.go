package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.StorageLocationRepository = (*StorageLocationRepo)(nil)

// StorageLocationRepo implementación del puerto StorageLocationRepository sobre PostgreSQL.
type StorageLocationRepo struct {
	q Querier
}

// NewStorageLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewStorageLocationRepository(q Querier) *StorageLocationRepo {
	return &StorageLocationRepo{q: q}
}

// Create persiste una nueva ubicación. El código es único dentro del almacén.
func (r *StorageLocationRepo) Create(location *entity.StorageLocation) error {
	query := `
		INSERT INTO storage_locations (id, warehouse_id, code, status, max_items, max_weight_kg, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.WarehouseID, location.Code, location.Status,
		location.MaxItems, location.MaxWeightKg, location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert storage location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID. Devuelve nil (sin error) si no existe.
func (r *StorageLocationRepo) GetByID(id string) (*entity.StorageLocation, error) {
	query := `
		SELECT id, warehouse_id, code, status, max_items, max_weight_kg, created_at, updated_at
		FROM storage_locations WHERE id = $1`
	var l entity.StorageLocation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.WarehouseID, &l.Code, &l.Status, &l.MaxItems, &l.MaxWeightKg, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get storage location: %w", err)
	}
	return &l, nil
}

// ListByWarehouse lista las ubicaciones de un almacén ordenadas por código.
func (r *StorageLocationRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StorageLocation, error) {
	query := `
		SELECT id, warehouse_id, code, status, max_items, max_weight_kg, created_at, updated_at
		FROM storage_locations WHERE warehouse_id = $1
		ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list storage locations: %w", err)
	}
	defer rows.Close()

	var locations []*entity.StorageLocation
	for rows.Next() {
		var l entity.StorageLocation
		if err := rows.Scan(&l.ID, &l.WarehouseID, &l.Code, &l.Status, &l.MaxItems, &l.MaxWeightKg, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan storage location: %w", err)
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

// UpdateStatus materializa el estado derivado FREE/OCCUPIED. Solo lo llama
// el ledger de stock tras recalcular el total de la ubicación.
func (r *StorageLocationRepo) UpdateStatus(id, status string) error {
	query := `UPDATE storage_locations SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update location status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
