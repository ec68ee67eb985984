package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/application/order"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// OrderHandler maneja el ciclo de vida financiero de pedidos (protegido).
type OrderHandler struct {
	ledger     *order.Ledger
	orderRepo  repository.OrderRepository
	costRepo   repository.CostOperationRepository
	incomeRepo repository.IncomeOperationRepository
}

// NewOrderHandler construye el handler. Los repos van atados al pool para lecturas.
func NewOrderHandler(
	ledger *order.Ledger,
	orderRepo repository.OrderRepository,
	costRepo repository.CostOperationRepository,
	incomeRepo repository.IncomeOperationRepository,
) *OrderHandler {
	return &OrderHandler{ledger: ledger, orderRepo: orderRepo, costRepo: costRepo, incomeRepo: incomeRepo}
}

// Create godoc
// @Summary      Crear pedido con costeo automático
// @Description  Corre el motor de costeo contra las tarifas activas, crea el
//               pedido con sus operaciones de costo y una de ingreso. Sin
//               income_amount se factura costo estimado × tarifa del cliente.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "client_id, items, income_amount opcional"
// @Success      201   {object}  dto.CreateOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]order.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, order.ItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			WeightKg:  it.WeightKg,
			VolumeM3:  it.VolumeM3,
		})
	}
	res, err := h.ledger.CreateFromEstimate(c.Context(), order.CreateInput{
		ClientID:     in.ClientID,
		Items:        items,
		IncomeAmount: in.IncomeAmount,
	})
	if err != nil {
		return orderError(c, err)
	}

	out := dto.CreateOrderResponse{
		Order:         dto.ToOrderResponse(res.Order),
		EstimatedCost: res.Estimated,
		CostOps:       make([]dto.CostOperationResponse, 0, len(res.CostOps)),
		IncomeOp:      dto.ToIncomeOperationResponse(res.IncomeOp),
	}
	for _, op := range res.CostOps {
		out.CostOps = append(out.CostOps, dto.ToCostOperationResponse(op))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Pedido con operaciones de costo e ingreso
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	ord, err := h.orderRepo.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if ord == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
	}
	costOps, err := h.costRepo.ListByOrder(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	incomeOps, err := h.incomeRepo.ListByOrder(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	costs := make([]dto.CostOperationResponse, 0, len(costOps))
	for _, op := range costOps {
		costs = append(costs, dto.ToCostOperationResponse(op))
	}
	incomes := make([]dto.IncomeOperationResponse, 0, len(incomeOps))
	for _, op := range incomeOps {
		incomes = append(incomes, dto.ToIncomeOperationResponse(op))
	}
	return c.JSON(fiber.Map{
		"order":             dto.ToOrderResponse(ord),
		"cost_operations":   costs,
		"income_operations": incomes,
	})
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        client_id  query  string  false  "Filtrar por cliente"
// @Param        limit      query  int     false  "Por defecto 50"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	orders, err := h.orderRepo.List(c.Query("client_id"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.ToOrderResponse(o))
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago sobre una operación de ingreso
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPaymentRequest  true  "income_operation_id, amount"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/payments [post]
func (h *OrderHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ord, err := h.ledger.RecordPayment(c.Context(), order.PaymentInput{
		IncomeOperationID: in.IncomeOperationID,
		Amount:            in.Amount,
		PaymentMethod:     in.PaymentMethod,
		PaymentDate:       in.PaymentDate,
	})
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(ord))
}

// AdjustCost godoc
// @Summary      Ajustar el monto real de una línea de costo
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la operación de costo"
// @Param        body  body  map[string]string  true  "actual_amount"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/cost-operations/{id} [patch]
func (h *OrderHandler) AdjustCost(c *fiber.Ctx) error {
	var in struct {
		ActualAmount decimal.Decimal `json:"actual_amount"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ord, err := h.ledger.AdjustCost(c.Context(), c.Params("id"), in.ActualAmount)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(ord))
}

// Recalculate godoc
// @Summary      Recalcular la instantánea financiera de un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/recalculate [post]
func (h *OrderHandler) Recalculate(c *fiber.Ctx) error {
	ord, err := h.ledger.Recalculate(c.Context(), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(ord))
}

// orderError mapea errores de dominio del ledger de pedidos a respuestas HTTP.
func orderError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrTransactionConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TX_CONFLICT", Message: "conflicto concurrente, reintente la operación"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
