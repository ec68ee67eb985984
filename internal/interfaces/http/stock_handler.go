package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/application/stock"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// StockHandler maneja las mutaciones y consultas de existencias (protegido).
type StockHandler struct {
	ledger    *stock.Ledger
	stockRepo repository.StockRecordRepository
}

// NewStockHandler construye el handler. stockRepo atado al pool para lecturas.
func NewStockHandler(ledger *stock.Ledger, stockRepo repository.StockRecordRepository) *StockHandler {
	return &StockHandler{ledger: ledger, stockRepo: stockRepo}
}

// Receive godoc
// @Summary      Recepción de mercancía (INBOUND)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "product_id, to_location_id, quantity, batch_number opcional"
// @Success      201   {object}  dto.StockRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receive [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.ledger.Receive(c.Context(), stock.ReceiveInput{
		ProductID:    in.ProductID,
		ToLocationID: in.ToLocationID,
		Quantity:     in.Quantity,
		BatchNumber:  in.BatchNumber,
		Reason:       in.Reason,
		UserID:       GetUserID(c),
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockRecordResponse(rec))
}

// Transfer godoc
// @Summary      Traslado entre ubicaciones
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_location_id, to_location_id, quantity"
// @Success      200   {object}  dto.TransferStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.ledger.Transfer(c.Context(), stock.TransferInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		BatchNumber:    in.BatchNumber,
		Reason:         in.Reason,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.TransferStockResponse{
		From: dto.ToStockRecordResponse(res.From),
		To:   dto.ToStockRecordResponse(res.To),
	})
}

// WriteOff godoc
// @Summary      Baja de stock (WRITE_OFF)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WriteOffStockRequest  true  "product_id, location_id, quantity, reason obligatorio"
// @Success      200   {object}  dto.StockRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/write-off [post]
func (h *StockHandler) WriteOff(c *fiber.Ctx) error {
	var in dto.WriteOffStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.ledger.WriteOff(c.Context(), stock.WriteOffInput{
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		BatchNumber: in.BatchNumber,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.ToStockRecordResponse(rec))
}

// ListByLocation godoc
// @Summary      Existencias de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {array}  dto.StockRecordResponse
// @Router       /api/stock/locations/{id} [get]
func (h *StockHandler) ListByLocation(c *fiber.Ctx) error {
	records, err := h.stockRepo.ListByLocation(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ToStockRecordResponse(r))
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Existencias de un producto en todas las ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.StockRecordResponse
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	records, err := h.stockRepo.ListByProduct(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ToStockRecordResponse(r))
	}
	return c.JSON(out)
}

// stockError mapea errores de dominio del ledger a respuestas HTTP.
func stockError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrada"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock disponible insuficiente"})
	case domain.ErrTransactionConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TX_CONFLICT", Message: "conflicto concurrente, reintente la operación"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
