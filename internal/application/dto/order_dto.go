package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// OrderItemRequest línea del pedido a crear. weight_kg y volume_m3 son
// totales de la línea.
type OrderItemRequest struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
	VolumeM3  decimal.Decimal `json:"volume_m3"`
}

// CreateOrderRequest body para POST /api/orders. income_amount ausente aplica
// la tarifa del cliente sobre el costo estimado.
type CreateOrderRequest struct {
	ClientID     string             `json:"client_id"`
	Items        []OrderItemRequest `json:"items"`
	IncomeAmount *decimal.Decimal   `json:"income_amount,omitempty"`
}

// RecordPaymentRequest body para POST /api/orders/payments.
type RecordPaymentRequest struct {
	IncomeOperationID string          `json:"income_operation_id"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty"`
}

// OrderResponse pedido con su instantánea financiera.
type OrderResponse struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	Status        string          `json:"status"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	ActualCost    decimal.Decimal `json:"actual_cost"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CostOperationResponse línea de costo del pedido.
type CostOperationResponse struct {
	ID               string          `json:"id"`
	VendorID         string          `json:"vendor_id"`
	VendorServiceID  string          `json:"vendor_service_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	ActualAmount     decimal.Decimal `json:"actual_amount"`
	Description      string          `json:"description"`
}

// IncomeOperationResponse factura/cobro del pedido.
type IncomeOperationResponse struct {
	ID            string          `json:"id"`
	InvoiceAmount decimal.Decimal `json:"invoice_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
}

// CreateOrderResponse pedido creado con sus operaciones y el costo estimado.
type CreateOrderResponse struct {
	Order         OrderResponse           `json:"order"`
	EstimatedCost decimal.Decimal         `json:"estimated_cost"`
	CostOps       []CostOperationResponse `json:"cost_operations"`
	IncomeOp      IncomeOperationResponse `json:"income_operation"`
}

// ToOrderResponse mapea la entidad al DTO.
func ToOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		ClientID:      o.ClientID,
		Status:        o.Status,
		TotalIncome:   o.TotalIncome,
		ActualCost:    o.ActualCost,
		Profit:        o.Profit,
		MarginPercent: o.MarginPercent,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToCostOperationResponse mapea la entidad al DTO.
func ToCostOperationResponse(op *entity.CostOperation) CostOperationResponse {
	return CostOperationResponse{
		ID:               op.ID,
		VendorID:         op.VendorID,
		VendorServiceID:  op.VendorServiceID,
		Quantity:         op.Quantity,
		UnitPrice:        op.UnitPrice,
		CalculatedAmount: op.CalculatedAmount,
		ActualAmount:     op.ActualAmount,
		Description:      op.Description,
	}
}

// ToIncomeOperationResponse mapea la entidad al DTO.
func ToIncomeOperationResponse(op *entity.IncomeOperation) IncomeOperationResponse {
	return IncomeOperationResponse{
		ID:            op.ID,
		InvoiceAmount: op.InvoiceAmount,
		PaidAmount:    op.PaidAmount,
		PaymentMethod: op.PaymentMethod,
		PaymentDate:   op.PaymentDate,
	}
}
