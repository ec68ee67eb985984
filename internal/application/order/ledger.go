package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/costing"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// Ledger agrega las operaciones de costo e ingreso de un pedido en una
// instantánea de rentabilidad. La instantánea es un caché: cada escritura la
// recomputa completa desde las sumas de operaciones, nunca la parcha.
type Ledger struct {
	txRunner    TxRunner
	clientRepo  repository.ClientRepository
	serviceRepo repository.VendorServiceRepository
}

// NewLedger construye el ledger de pedidos.
func NewLedger(
	txRunner TxRunner,
	clientRepo repository.ClientRepository,
	serviceRepo repository.VendorServiceRepository,
) *Ledger {
	return &Ledger{
		txRunner:    txRunner,
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
	}
}

// ItemInput es una línea del pedido a crear. WeightKg y VolumeM3 son totales
// de la línea.
type ItemInput struct {
	ProductID string
	Name      string
	Quantity  int64
	WeightKg  decimal.Decimal
	VolumeM3  decimal.Decimal
}

// CreateInput entrada para crear un pedido desde la estimación de costos.
// IncomeAmount nil aplica la tarifa del cliente sobre el costo estimado.
type CreateInput struct {
	ClientID     string
	Items        []ItemInput
	IncomeAmount *decimal.Decimal
}

// CreateResult pedido creado con sus operaciones.
type CreateResult struct {
	Order     *entity.Order
	CostOps   []*entity.CostOperation
	IncomeOp  *entity.IncomeOperation
	Estimated decimal.Decimal
}

// CreateFromEstimate corre el motor de costeo contra el catálogo activo,
// crea el pedido con sus líneas, una operación de costo por match
// (calculated = actual) y exactamente una operación de ingreso por la
// factura (sin pagar). Todo o nada.
func (l *Ledger) CreateFromEstimate(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.Quantity < 0 || it.WeightKg.IsNegative() || it.VolumeM3.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.IncomeAmount != nil && in.IncomeAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	client, err := l.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	services, err := l.serviceRepo.ListActive()
	if err != nil {
		return nil, err
	}
	lineItems := make([]costing.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		lineItems = append(lineItems, costing.LineItem{
			Quantity: it.Quantity,
			WeightKg: it.WeightKg,
			VolumeM3: it.VolumeM3,
		})
	}
	costLines := costing.Match(services, lineItems)
	estimated := costing.Total(costLines)

	invoiceAmount := estimated.Mul(client.EffectiveTariffRate())
	if in.IncomeAmount != nil {
		invoiceAmount = *in.IncomeAmount
	}

	now := time.Now()
	result := &CreateResult{Estimated: estimated}
	err = l.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		costRepo repository.CostOperationRepository,
		incomeRepo repository.IncomeOperationRepository,
	) error {
		ord := &entity.Order{
			ID:        uuid.New().String(),
			ClientID:  in.ClientID,
			Status:    entity.OrderStatusNew,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := orderRepo.Create(ord); err != nil {
			return err
		}
		for _, it := range in.Items {
			if err := orderRepo.CreateItem(&entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   ord.ID,
				ProductID: it.ProductID,
				Name:      it.Name,
				Quantity:  it.Quantity,
				WeightKg:  it.WeightKg,
				VolumeM3:  it.VolumeM3,
			}); err != nil {
				return err
			}
		}
		for _, line := range costLines {
			op := &entity.CostOperation{
				ID:               uuid.New().String(),
				OrderID:          ord.ID,
				VendorID:         line.VendorID,
				VendorServiceID:  line.VendorServiceID,
				Quantity:         line.Quantity,
				UnitPrice:        line.UnitPrice,
				CalculatedAmount: line.CalculatedAmount,
				ActualAmount:     line.CalculatedAmount, // divergen solo por ajuste manual
				Description:      line.Description,
				CreatedAt:        now,
			}
			if err := costRepo.Create(op); err != nil {
				return err
			}
			result.CostOps = append(result.CostOps, op)
		}
		incomeOp := &entity.IncomeOperation{
			ID:            uuid.New().String(),
			OrderID:       ord.ID,
			ClientID:      in.ClientID,
			InvoiceAmount: invoiceAmount,
			PaidAmount:    decimal.Zero,
			CreatedAt:     now,
		}
		if err := incomeRepo.Create(incomeOp); err != nil {
			return err
		}
		result.IncomeOp = incomeOp

		if err := recalcSnapshot(ord, costRepo, incomeRepo, orderRepo); err != nil {
			return err
		}
		result.Order = ord
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PaymentInput entrada para registrar un pago sobre una operación de ingreso.
type PaymentInput struct {
	IncomeOperationID string
	Amount            decimal.Decimal
	PaymentMethod     string
	PaymentDate       *time.Time
}

// RecordPayment incrementa paid_amount de la operación (sin tope contra
// invoice_amount: el sobrepago es representable) y recomputa la instantánea
// del pedido en la misma transacción.
func (l *Ledger) RecordPayment(ctx context.Context, in PaymentInput) (*entity.Order, error) {
	if in.IncomeOperationID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Order
	err := l.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		costRepo repository.CostOperationRepository,
		incomeRepo repository.IncomeOperationRepository,
	) error {
		op, err := incomeRepo.GetForUpdate(in.IncomeOperationID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		op.PaidAmount = op.PaidAmount.Add(in.Amount)
		if in.PaymentMethod != "" {
			op.PaymentMethod = in.PaymentMethod
		}
		if in.PaymentDate != nil {
			op.PaymentDate = in.PaymentDate
		} else {
			now := time.Now()
			op.PaymentDate = &now
		}
		if err := incomeRepo.Update(op); err != nil {
			return err
		}

		ord, err := orderRepo.GetByID(op.OrderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return domain.ErrNotFound
		}
		if err := recalcSnapshot(ord, costRepo, incomeRepo, orderRepo); err != nil {
			return err
		}
		updated = ord
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AdjustCost ajusta manualmente el monto real de una línea de costo y
// recomputa la instantánea del pedido en la misma transacción. No toca
// calculated_amount, que conserva lo que emitió el motor de costeo.
func (l *Ledger) AdjustCost(ctx context.Context, costOpID string, amount decimal.Decimal) (*entity.Order, error) {
	if costOpID == "" || amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Order
	err := l.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		costRepo repository.CostOperationRepository,
		incomeRepo repository.IncomeOperationRepository,
	) error {
		op, err := costRepo.GetByID(costOpID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if err := costRepo.UpdateActualAmount(op.ID, amount); err != nil {
			return err
		}
		ord, err := orderRepo.GetByID(op.OrderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return domain.ErrNotFound
		}
		if err := recalcSnapshot(ord, costRepo, incomeRepo, orderRepo); err != nil {
			return err
		}
		updated = ord
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Recalculate resincroniza la instantánea del pedido desde las sumas de sus
// operaciones. Idempotente: sin escrituras intermedias, dos llamadas
// seguidas producen instantáneas idénticas.
func (l *Ledger) Recalculate(ctx context.Context, orderID string) (*entity.Order, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Order
	err := l.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		costRepo repository.CostOperationRepository,
		incomeRepo repository.IncomeOperationRepository,
	) error {
		ord, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return domain.ErrNotFound
		}
		if err := recalcSnapshot(ord, costRepo, incomeRepo, orderRepo); err != nil {
			return err
		}
		updated = ord
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// recalcSnapshot es la ÚNICA rutina que escribe los campos derivados del
// pedido: actual_cost desde actual_amount, total_income desde paid_amount,
// profit y margen desde esas dos sumas.
func recalcSnapshot(
	ord *entity.Order,
	costRepo repository.CostOperationRepository,
	incomeRepo repository.IncomeOperationRepository,
	orderRepo repository.OrderRepository,
) error {
	actualCost, err := costRepo.SumActualByOrder(ord.ID)
	if err != nil {
		return err
	}
	totalIncome, err := incomeRepo.SumPaidByOrder(ord.ID)
	if err != nil {
		return err
	}
	ord.ActualCost = actualCost
	ord.TotalIncome = totalIncome
	ord.Profit = totalIncome.Sub(actualCost)
	if totalIncome.IsZero() {
		ord.MarginPercent = decimal.Zero
	} else {
		ord.MarginPercent = ord.Profit.Div(totalIncome).Mul(decimal.NewFromInt(100))
	}
	ord.UpdatedAt = time.Now()
	return orderRepo.UpdateSnapshot(ord)
}
