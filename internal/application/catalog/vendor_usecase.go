package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var validServiceTypes = map[string]bool{
	entity.ServiceTypePicking:   true,
	entity.ServiceTypePacking:   true,
	entity.ServiceTypeShipping:  true,
	entity.ServiceTypeStorage:   true,
	entity.ServiceTypeReceiving: true,
	entity.ServiceTypeLabeling:  true,
	entity.ServiceTypeReturns:   true,
}

var validServiceUnits = map[string]bool{
	entity.ServiceUnitOrder:      true,
	entity.ServiceUnitPiece:      true,
	entity.ServiceUnitKg:         true,
	entity.ServiceUnitPallet:     true,
	entity.ServiceUnitCubicMeter: true,
}

// VendorUseCase casos de uso para proveedores y sus tarifas de servicio.
type VendorUseCase struct {
	vendorRepo  repository.VendorRepository
	serviceRepo repository.VendorServiceRepository
}

// NewVendorUseCase construye el caso de uso.
func NewVendorUseCase(vendorRepo repository.VendorRepository, serviceRepo repository.VendorServiceRepository) *VendorUseCase {
	return &VendorUseCase{vendorRepo: vendorRepo, serviceRepo: serviceRepo}
}

// Create crea un proveedor.
func (uc *VendorUseCase) Create(in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	vendor := &entity.Vendor{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	resp := dto.ToVendorResponse(vendor)
	return &resp, nil
}

// List lista proveedores paginados.
func (uc *VendorUseCase) List(limit, offset int) ([]dto.VendorResponse, error) {
	vendors, err := uc.vendorRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, dto.ToVendorResponse(v))
	}
	return out, nil
}

// CreateService registra una tarifa para un proveedor existente.
// Nace activa; el motor de costeo solo consume servicios activos.
func (uc *VendorUseCase) CreateService(in dto.CreateVendorServiceRequest) (*dto.VendorServiceResponse, error) {
	if in.VendorID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if !validServiceTypes[in.Type] || !validServiceUnits[in.Unit] {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	vendor, err := uc.vendorRepo.GetByID(in.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	service := &entity.VendorService{
		ID:         uuid.New().String(),
		VendorID:   vendor.ID,
		VendorName: vendor.Name,
		Name:       in.Name,
		Type:       in.Type,
		Unit:       in.Unit,
		Price:      in.Price,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	resp := dto.ToVendorServiceResponse(service)
	return &resp, nil
}

// ListServices lista las tarifas de un proveedor.
func (uc *VendorUseCase) ListServices(vendorID string, limit, offset int) ([]dto.VendorServiceResponse, error) {
	if vendorID == "" {
		return nil, domain.ErrInvalidInput
	}
	services, err := uc.serviceRepo.ListByVendor(vendorID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, dto.ToVendorServiceResponse(s))
	}
	return out, nil
}

// DeactivateService marca una tarifa como inactiva, retirándola del costeo
// de pedidos futuros sin afectar pedidos ya creados.
func (uc *VendorUseCase) DeactivateService(id string) error {
	service, err := uc.serviceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if service == nil {
		return domain.ErrNotFound
	}
	service.IsActive = false
	service.UpdatedAt = time.Now()
	return uc.serviceRepo.Update(service)
}
