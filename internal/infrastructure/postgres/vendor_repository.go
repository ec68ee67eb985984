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

var _ repository.VendorRepository = (*VendorRepo)(nil)
var _ repository.VendorServiceRepository = (*VendorServiceRepo)(nil)

// VendorRepo implementación del puerto VendorRepository sobre PostgreSQL.
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador de proveedores. Pasar pool o tx (Querier).
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// Create persiste un nuevo proveedor.
func (r *VendorRepo) Create(vendor *entity.Vendor) error {
	query := `
		INSERT INTO vendors (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, vendor.ID, vendor.Name, vendor.CreatedAt, vendor.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID. Devuelve nil (sin error) si no existe.
func (r *VendorRepo) GetByID(id string) (*entity.Vendor, error) {
	query := `SELECT id, name, created_at, updated_at FROM vendors WHERE id = $1`
	var v entity.Vendor
	err := r.q.QueryRow(context.Background(), query, id).Scan(&v.ID, &v.Name, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}

// List lista proveedores paginados por nombre.
func (r *VendorRepo) List(limit, offset int) ([]*entity.Vendor, error) {
	query := `SELECT id, name, created_at, updated_at FROM vendors ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*entity.Vendor
	for rows.Next() {
		var v entity.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, &v)
	}
	return vendors, rows.Err()
}

// VendorServiceRepo implementación del puerto VendorServiceRepository.
// Todas las lecturas hacen join con vendors para desnormalizar el nombre
// del proveedor (lo consume el motor de costeo en las descripciones).
type VendorServiceRepo struct {
	q Querier
}

// NewVendorServiceRepository construye el adaptador de tarifas. Pasar pool o tx (Querier).
func NewVendorServiceRepository(q Querier) *VendorServiceRepo {
	return &VendorServiceRepo{q: q}
}

const vendorServiceSelect = `
	SELECT s.id, s.vendor_id, v.name, s.name, s.type, s.unit, s.price, s.is_active, s.created_at, s.updated_at
	FROM vendor_services s
	JOIN vendors v ON v.id = s.vendor_id`

// Create persiste una nueva tarifa de servicio.
func (r *VendorServiceRepo) Create(service *entity.VendorService) error {
	query := `
		INSERT INTO vendor_services (id, vendor_id, name, type, unit, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		service.ID, service.VendorID, service.Name, service.Type, service.Unit,
		service.Price, service.IsActive, service.CreatedAt, service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vendor service: %w", err)
	}
	return nil
}

// GetByID obtiene una tarifa por ID. Devuelve nil (sin error) si no existe.
func (r *VendorServiceRepo) GetByID(id string) (*entity.VendorService, error) {
	query := vendorServiceSelect + ` WHERE s.id = $1`
	var s entity.VendorService
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.VendorID, &s.VendorName, &s.Name, &s.Type, &s.Unit, &s.Price, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor service: %w", err)
	}
	return &s, nil
}

// ListActive devuelve las tarifas activas de todos los proveedores.
// Es la entrada del motor de costeo al crear un pedido.
func (r *VendorServiceRepo) ListActive() ([]*entity.VendorService, error) {
	query := vendorServiceSelect + ` WHERE s.is_active ORDER BY v.name, s.name`
	return r.list(query)
}

// ListByVendor lista las tarifas de un proveedor, activas o no.
func (r *VendorServiceRepo) ListByVendor(vendorID string, limit, offset int) ([]*entity.VendorService, error) {
	query := vendorServiceSelect + ` WHERE s.vendor_id = $1 ORDER BY s.name LIMIT $2 OFFSET $3`
	return r.list(query, vendorID, limit, offset)
}

// Update actualiza una tarifa (nombre, tipo, unidad, precio, activa).
func (r *VendorServiceRepo) Update(service *entity.VendorService) error {
	query := `
		UPDATE vendor_services
		SET name = $2, type = $3, unit = $4, price = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		service.ID, service.Name, service.Type, service.Unit, service.Price, service.IsActive, service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vendor service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *VendorServiceRepo) list(query string, args ...any) ([]*entity.VendorService, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendor services: %w", err)
	}
	defer rows.Close()

	var services []*entity.VendorService
	for rows.Next() {
		var s entity.VendorService
		if err := rows.Scan(&s.ID, &s.VendorID, &s.VendorName, &s.Name, &s.Type, &s.Unit, &s.Price, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor service: %w", err)
		}
		services = append(services, &s)
	}
	return services, rows.Err()
}
