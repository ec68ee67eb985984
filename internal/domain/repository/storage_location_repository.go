package repository

import "github.com/jhoicas/fulfillment-api/internal/domain/entity"

// StorageLocationRepository define el puerto de persistencia para ubicaciones.
// UpdateStatus existe solo para que el ledger materialice el estado derivado;
// ningún otro caso de uso debe llamarlo.
type StorageLocationRepository interface {
	Create(location *entity.StorageLocation) error
	GetByID(id string) (*entity.StorageLocation, error)
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StorageLocation, error)
	UpdateStatus(id, status string) error
}
