package repository

import "github.com/jhoicas/fulfillment-api/internal/domain/entity"

// VendorRepository define el puerto de persistencia para proveedores.
type VendorRepository interface {
	Create(vendor *entity.Vendor) error
	GetByID(id string) (*entity.Vendor, error)
	List(limit, offset int) ([]*entity.Vendor, error)
}

// VendorServiceRepository define el puerto para las tarifas de servicio.
// ListActive devuelve solo servicios con is_active = true, con el nombre del
// proveedor desnormalizado (entrada del motor de costeo).
type VendorServiceRepository interface {
	Create(service *entity.VendorService) error
	GetByID(id string) (*entity.VendorService, error)
	ListActive() ([]*entity.VendorService, error)
	ListByVendor(vendorID string, limit, offset int) ([]*entity.VendorService, error)
	Update(service *entity.VendorService) error
}
