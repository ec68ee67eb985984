package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de servicio ofrecidos por proveedores del centro de fulfillment.
const (
	ServiceTypePicking   = "PICKING"
	ServiceTypePacking   = "PACKING"
	ServiceTypeShipping  = "SHIPPING"
	ServiceTypeStorage   = "STORAGE"
	ServiceTypeReceiving = "RECEIVING"
	ServiceTypeLabeling  = "LABELING"
	ServiceTypeReturns   = "RETURNS"
)

// Unidades de cobro de un servicio.
const (
	ServiceUnitOrder      = "ORDER"
	ServiceUnitPiece      = "PIECE"
	ServiceUnitKg         = "KG"
	ServiceUnitPallet     = "PALLET"
	ServiceUnitCubicMeter = "CUBIC_METER"
)

// Vendor representa un proveedor de servicios logísticos.
type Vendor struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VendorService es una tarifa publicada por un proveedor. Entrada de solo
// lectura para el motor de costeo; la gestión de proveedores es externa al núcleo.
// VendorName viene desnormalizado del join con vendors para armar descripciones.
type VendorService struct {
	ID         string
	VendorID   string
	VendorName string
	Name       string
	Type       string // PICKING, PACKING, SHIPPING, ...
	Unit       string // ORDER, PIECE, KG, ...
	Price      decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
