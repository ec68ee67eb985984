package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	UnitWeightKg decimal.Decimal `json:"unit_weight_kg"`
}

// ProductResponse SKU del catálogo.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	UnitWeightKg decimal.Decimal `json:"unit_weight_kg"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// WarehouseResponse almacén físico.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	WarehouseID string `json:"warehouse_id"`
	Code        string `json:"code"`
	MaxItems    int64  `json:"max_items"`
	MaxWeightKg int64  `json:"max_weight_kg"`
}

// LocationResponse ubicación de almacenaje. El estado es derivado del stock.
type LocationResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	Code        string    `json:"code"`
	Status      string    `json:"status"`
	MaxItems    int64     `json:"max_items"`
	MaxWeightKg int64     `json:"max_weight_kg"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateVendorRequest body para POST /api/vendors.
type CreateVendorRequest struct {
	Name string `json:"name"`
}

// VendorResponse proveedor de servicios logísticos.
type VendorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateVendorServiceRequest body para POST /api/vendors/services.
type CreateVendorServiceRequest struct {
	VendorID string          `json:"vendor_id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
}

// VendorServiceResponse tarifa publicada por un proveedor.
type VendorServiceResponse struct {
	ID         string          `json:"id"`
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	IsActive   bool            `json:"is_active"`
}

// CreateClientRequest body para POST /api/clients. tariff_rate en cero o
// ausente deja al cliente con la tarifa por defecto.
type CreateClientRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	TariffRate decimal.Decimal `json:"tariff_rate"`
}

// ClientResponse cliente del operador.
type ClientResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	TariffRate decimal.Decimal `json:"tariff_rate"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToProductResponse mapea la entidad al DTO.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		UnitCost:     p.UnitCost,
		UnitWeightKg: p.UnitWeightKg,
		CreatedAt:    p.CreatedAt,
	}
}

// ToWarehouseResponse mapea la entidad al DTO.
func ToWarehouseResponse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
	}
}

// ToLocationResponse mapea la entidad al DTO.
func ToLocationResponse(l *entity.StorageLocation) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		Code:        l.Code,
		Status:      l.Status,
		MaxItems:    l.MaxItems,
		MaxWeightKg: l.MaxWeightKg,
		CreatedAt:   l.CreatedAt,
	}
}

// ToVendorResponse mapea la entidad al DTO.
func ToVendorResponse(v *entity.Vendor) VendorResponse {
	return VendorResponse{ID: v.ID, Name: v.Name, CreatedAt: v.CreatedAt}
}

// ToVendorServiceResponse mapea la entidad al DTO.
func ToVendorServiceResponse(s *entity.VendorService) VendorServiceResponse {
	return VendorServiceResponse{
		ID:         s.ID,
		VendorID:   s.VendorID,
		VendorName: s.VendorName,
		Name:       s.Name,
		Type:       s.Type,
		Unit:       s.Unit,
		Price:      s.Price,
		IsActive:   s.IsActive,
	}
}

// ToClientResponse mapea la entidad al DTO.
func ToClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		TariffRate: c.TariffRate,
		CreatedAt:  c.CreatedAt,
	}
}
