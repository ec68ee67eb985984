package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-api/internal/application/catalog"
	"github.com/jhoicas/fulfillment-api/internal/application/dto"
)

// VendorHandler maneja proveedores y sus tarifas de servicio (protegido).
type VendorHandler struct {
	uc *catalog.VendorUseCase
}

// NewVendorHandler construye el handler.
func NewVendorHandler(uc *catalog.VendorUseCase) *VendorHandler {
	return &VendorHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         vendors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVendorRequest  true  "name"
// @Success      201   {object}  dto.VendorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vendors [post]
func (h *VendorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVendorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	vendor, err := h.uc.Create(in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(vendor)
}

// List godoc
// @Summary      Listar proveedores
// @Tags         vendors
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Por defecto 50"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.VendorResponse
// @Router       /api/vendors [get]
func (h *VendorHandler) List(c *fiber.Ctx) error {
	vendors, err := h.uc.List(c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(vendors)
}

// CreateService godoc
// @Summary      Registrar tarifa de servicio
// @Tags         vendors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVendorServiceRequest  true  "vendor_id, name, type, unit, price"
// @Success      201   {object}  dto.VendorServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/vendors/services [post]
func (h *VendorHandler) CreateService(c *fiber.Ctx) error {
	var in dto.CreateVendorServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	service, err := h.uc.CreateService(in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// ListServices godoc
// @Summary      Listar tarifas de un proveedor
// @Tags         vendors
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del proveedor"
// @Param        limit   query  int     false  "Por defecto 50"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.VendorServiceResponse
// @Router       /api/vendors/{id}/services [get]
func (h *VendorHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.uc.ListServices(c.Params("id"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(services)
}

// DeactivateService godoc
// @Summary      Desactivar una tarifa de servicio
// @Tags         vendors
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tarifa"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vendors/services/{id} [delete]
func (h *VendorHandler) DeactivateService(c *fiber.Ctx) error {
	if err := h.uc.DeactivateService(c.Params("id")); err != nil {
		return catalogError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
