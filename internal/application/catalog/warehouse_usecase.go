package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso para almacenes y sus ubicaciones.
// Las ubicaciones nacen FREE; el estado posterior lo deriva el ledger.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
	locationRepo  repository.StorageLocationRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(warehouseRepo repository.WarehouseRepository, locationRepo repository.StorageLocationRepository) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo, locationRepo: locationRepo}
}

// Create crea un almacén.
func (uc *WarehouseUseCase) Create(in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(warehouse); err != nil {
		return nil, err
	}
	resp := dto.ToWarehouseResponse(warehouse)
	return &resp, nil
}

// List lista almacenes paginados.
func (uc *WarehouseUseCase) List(limit, offset int) ([]dto.WarehouseResponse, error) {
	warehouses, err := uc.warehouseRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, dto.ToWarehouseResponse(w))
	}
	return out, nil
}

// CreateLocation crea una ubicación dentro de un almacén existente.
func (uc *WarehouseUseCase) CreateLocation(in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.WarehouseID == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	location := &entity.StorageLocation{
		ID:          uuid.New().String(),
		WarehouseID: in.WarehouseID,
		Code:        in.Code,
		Status:      entity.LocationStatusFree,
		MaxItems:    in.MaxItems,
		MaxWeightKg: in.MaxWeightKg,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	resp := dto.ToLocationResponse(location)
	return &resp, nil
}

// ListLocations lista las ubicaciones de un almacén.
func (uc *WarehouseUseCase) ListLocations(warehouseID string, limit, offset int) ([]dto.LocationResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	locations, err := uc.locationRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, dto.ToLocationResponse(l))
	}
	return out, nil
}
