package order_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-api/internal/application/order"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica de rollback (snapshot/restore).
// ──────────────────────────────────────────────────────────────────────────────

type memOrderStore struct {
	orders    map[string]*entity.Order
	items     []*entity.OrderItem
	costOps   map[string]*entity.CostOperation
	incomeOps map[string]*entity.IncomeOperation
	clients   map[string]*entity.Client
	services  []*entity.VendorService
	seq       int
	failOn    string // nombre de método que debe fallar (para probar atomicidad)
}

func newOrderStore() *memOrderStore {
	return &memOrderStore{
		orders:    map[string]*entity.Order{},
		costOps:   map[string]*entity.CostOperation{},
		incomeOps: map[string]*entity.IncomeOperation{},
		clients:   map[string]*entity.Client{},
	}
}

func (s *memOrderStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memOrderStore) snapshot() *memOrderStore {
	snap := newOrderStore()
	snap.seq = s.seq
	for k, v := range s.orders {
		c := *v
		snap.orders[k] = &c
	}
	for k, v := range s.costOps {
		c := *v
		snap.costOps[k] = &c
	}
	for k, v := range s.incomeOps {
		c := *v
		snap.incomeOps[k] = &c
	}
	snap.items = append(snap.items, s.items...)
	return snap
}

func (s *memOrderStore) restore(snap *memOrderStore) {
	s.orders = snap.orders
	s.costOps = snap.costOps
	s.incomeOps = snap.incomeOps
	s.items = snap.items
	s.seq = snap.seq
}

type memOrderRepo struct{ s *memOrderStore }

func (r *memOrderRepo) Create(o *entity.Order) error {
	if r.s.failOn == "Order.Create" {
		return fmt.Errorf("fallo inyectado")
	}
	if o.ID == "" {
		o.ID = r.s.nextID("ord")
	}
	c := *o
	r.s.orders[o.ID] = &c
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (r *memOrderRepo) List(string, int, int) ([]*entity.Order, error) { return nil, nil }

func (r *memOrderRepo) UpdateSnapshot(o *entity.Order) error {
	stored, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.TotalIncome = o.TotalIncome
	stored.ActualCost = o.ActualCost
	stored.Profit = o.Profit
	stored.MarginPercent = o.MarginPercent
	stored.UpdatedAt = o.UpdatedAt
	return nil
}

func (r *memOrderRepo) CreateItem(it *entity.OrderItem) error {
	if it.ID == "" {
		it.ID = r.s.nextID("item")
	}
	c := *it
	r.s.items = append(r.s.items, &c)
	return nil
}

func (r *memOrderRepo) ListItems(orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range r.s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memCostRepo struct{ s *memOrderStore }

func (r *memCostRepo) Create(op *entity.CostOperation) error {
	if op.ID == "" {
		op.ID = r.s.nextID("cost")
	}
	c := *op
	r.s.costOps[op.ID] = &c
	return nil
}

func (r *memCostRepo) GetByID(id string) (*entity.CostOperation, error) {
	op, ok := r.s.costOps[id]
	if !ok {
		return nil, nil
	}
	return op, nil
}

func (r *memCostRepo) ListByOrder(orderID string) ([]*entity.CostOperation, error) {
	var out []*entity.CostOperation
	for _, op := range r.s.costOps {
		if op.OrderID == orderID {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r *memCostRepo) SumActualByOrder(orderID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, op := range r.s.costOps {
		if op.OrderID == orderID {
			sum = sum.Add(op.ActualAmount)
		}
	}
	return sum, nil
}

func (r *memCostRepo) UpdateActualAmount(id string, amount decimal.Decimal) error {
	op, ok := r.s.costOps[id]
	if !ok {
		return domain.ErrNotFound
	}
	op.ActualAmount = amount
	return nil
}

type memIncomeRepo struct{ s *memOrderStore }

func (r *memIncomeRepo) Create(op *entity.IncomeOperation) error {
	if r.s.failOn == "Income.Create" {
		return fmt.Errorf("fallo inyectado")
	}
	if op.ID == "" {
		op.ID = r.s.nextID("inc")
	}
	c := *op
	r.s.incomeOps[op.ID] = &c
	return nil
}

func (r *memIncomeRepo) GetByID(id string) (*entity.IncomeOperation, error) {
	op, ok := r.s.incomeOps[id]
	if !ok {
		return nil, nil
	}
	c := *op
	return &c, nil
}

func (r *memIncomeRepo) GetForUpdate(id string) (*entity.IncomeOperation, error) {
	return r.GetByID(id)
}

func (r *memIncomeRepo) Update(op *entity.IncomeOperation) error {
	if _, ok := r.s.incomeOps[op.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *op
	r.s.incomeOps[op.ID] = &c
	return nil
}

func (r *memIncomeRepo) ListByOrder(orderID string) ([]*entity.IncomeOperation, error) {
	var out []*entity.IncomeOperation
	for _, op := range r.s.incomeOps {
		if op.OrderID == orderID {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r *memIncomeRepo) SumPaidByOrder(orderID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, op := range r.s.incomeOps {
		if op.OrderID == orderID {
			sum = sum.Add(op.PaidAmount)
		}
	}
	return sum, nil
}

type memOrderTxRunner struct{ s *memOrderStore }

func (r *memOrderTxRunner) Run(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	costRepo repository.CostOperationRepository,
	incomeRepo repository.IncomeOperationRepository,
) error) error {
	snap := r.s.snapshot()
	if err := fn(&memOrderRepo{r.s}, &memCostRepo{r.s}, &memIncomeRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

type memClientRepo struct{ s *memOrderStore }

func (r *memClientRepo) Create(c *entity.Client) error { r.s.clients[c.ID] = c; return nil }

func (r *memClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *memClientRepo) List(int, int) ([]*entity.Client, error) { return nil, nil }
func (r *memClientRepo) Update(*entity.Client) error             { return nil }

type memServiceRepo struct{ s *memOrderStore }

func (r *memServiceRepo) Create(*entity.VendorService) error          { return nil }
func (r *memServiceRepo) GetByID(string) (*entity.VendorService, error) { return nil, nil }
func (r *memServiceRepo) ListActive() ([]*entity.VendorService, error) { return r.s.services, nil }
func (r *memServiceRepo) ListByVendor(string, int, int) ([]*entity.VendorService, error) {
	return nil, nil
}
func (r *memServiceRepo) Update(*entity.VendorService) error { return nil }

// newLedger arma el ledger con el catálogo del escenario de referencia:
// envío (1-5kg) a 450/pedido y picking por pieza a 10.
func newLedger(t *testing.T) (*order.Ledger, *memOrderStore) {
	t.Helper()
	s := newOrderStore()
	s.clients["C1"] = &entity.Client{ID: "C1", Name: "Cliente sin tarifa"}
	s.clients["C2"] = &entity.Client{ID: "C2", Name: "Cliente premium", TariffRate: decimal.NewFromFloat(1.5)}
	s.services = []*entity.VendorService{
		{ID: "s1", VendorID: "v1", VendorName: "СДЭК", Name: "Доставка (1-5кг)",
			Type: entity.ServiceTypeShipping, Unit: entity.ServiceUnitOrder,
			Price: decimal.NewFromInt(450), IsActive: true},
		{ID: "s2", VendorID: "v2", VendorName: "ФЦ", Name: "Комплектация (за единицу)",
			Type: entity.ServiceTypePicking, Unit: entity.ServiceUnitPiece,
			Price: decimal.NewFromInt(10), IsActive: true},
	}
	return order.NewLedger(&memOrderTxRunner{s}, &memClientRepo{s}, &memServiceRepo{s}), s
}

func threeKgTwentyPieces() []order.ItemInput {
	return []order.ItemInput{
		{Name: "Lote A", Quantity: 12, WeightKg: decimal.NewFromInt(2)},
		{Name: "Lote B", Quantity: 8, WeightKg: decimal.NewFromInt(1)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación desde estimación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateFromEstimate_TarifaPorDefecto(t *testing.T) {
	l, s := newLedger(t)

	res, err := l.CreateFromEstimate(context.Background(), order.CreateInput{
		ClientID: "C1",
		Items:    threeKgTwentyPieces(),
	})
	require.NoError(t, err)

	// 450 (tramo 1-5kg) + 200 (20 piezas a 10) = 650 estimado.
	assert.True(t, res.Estimated.Equal(decimal.NewFromInt(650)), "estimado = %s", res.Estimated)
	require.Len(t, res.CostOps, 2)
	for _, op := range res.CostOps {
		assert.True(t, op.ActualAmount.Equal(op.CalculatedAmount), "actual arranca igual a calculado")
	}

	// Ingreso por defecto: 650 * 1.3 = 845, sin pagar.
	require.NotNil(t, res.IncomeOp)
	assert.True(t, res.IncomeOp.InvoiceAmount.Equal(decimal.NewFromInt(845)))
	assert.True(t, res.IncomeOp.PaidAmount.IsZero())

	// Instantánea inicial: costo real 650, ingreso 0.
	ord := s.orders[res.Order.ID]
	assert.True(t, ord.ActualCost.Equal(decimal.NewFromInt(650)))
	assert.True(t, ord.TotalIncome.IsZero())
	assert.True(t, ord.MarginPercent.IsZero(), "sin ingreso el margen es 0")
	assert.Len(t, s.items, 2)
}

func TestCreateFromEstimate_TarifaDelCliente(t *testing.T) {
	l, _ := newLedger(t)

	res, err := l.CreateFromEstimate(context.Background(), order.CreateInput{
		ClientID: "C2",
		Items:    threeKgTwentyPieces(),
	})
	require.NoError(t, err)
	assert.True(t, res.IncomeOp.InvoiceAmount.Equal(decimal.NewFromInt(975)), "650 * 1.5")
}

func TestCreateFromEstimate_IngresoExplicito(t *testing.T) {
	l, _ := newLedger(t)

	explicit := decimal.NewFromInt(700)
	res, err := l.CreateFromEstimate(context.Background(), order.CreateInput{
		ClientID:     "C1",
		Items:        threeKgTwentyPieces(),
		IncomeAmount: &explicit,
	})
	require.NoError(t, err)
	assert.True(t, res.IncomeOp.InvoiceAmount.Equal(explicit), "el monto explícito manda sobre la tarifa")
}

func TestCreateFromEstimate_Validaciones(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.CreateFromEstimate(ctx, order.CreateInput{ClientID: "", Items: threeKgTwentyPieces()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.CreateFromEstimate(ctx, order.CreateInput{ClientID: "C1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = l.CreateFromEstimate(ctx, order.CreateInput{ClientID: "desconocido", Items: threeKgTwentyPieces()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.CreateFromEstimate(ctx, order.CreateInput{
		ClientID: "C1",
		Items:    []order.ItemInput{{Name: "x", Quantity: -1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateFromEstimate_FalloPersistiendoNoDejaNada(t *testing.T) {
	l, s := newLedger(t)
	s.failOn = "Income.Create"

	_, err := l.CreateFromEstimate(context.Background(), order.CreateInput{
		ClientID: "C1",
		Items:    threeKgTwentyPieces(),
	})
	require.Error(t, err)

	// Atomicidad: ni pedido, ni líneas, ni operaciones de costo.
	assert.Empty(t, s.orders)
	assert.Empty(t, s.items)
	assert.Empty(t, s.costOps)
	assert.Empty(t, s.incomeOps)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos y recálculo
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPayment_EscenarioReferencia(t *testing.T) {
	l, s := newLedger(t)
	ctx := context.Background()

	res, err := l.CreateFromEstimate(ctx, order.CreateInput{ClientID: "C1", Items: threeKgTwentyPieces()})
	require.NoError(t, err)

	ord, err := l.RecordPayment(ctx, order.PaymentInput{
		IncomeOperationID: res.IncomeOp.ID,
		Amount:            decimal.NewFromInt(845),
		PaymentMethod:     "transferencia",
	})
	require.NoError(t, err)

	// 845 cobrado - 650 de costo = 195 de utilidad, margen 23.08%.
	assert.True(t, ord.TotalIncome.Equal(decimal.NewFromInt(845)))
	assert.True(t, ord.Profit.Equal(decimal.NewFromInt(195)))
	assert.True(t, ord.MarginPercent.Round(2).Equal(decimal.NewFromFloat(23.08)), "margen = %s", ord.MarginPercent)

	stored := s.incomeOps[res.IncomeOp.ID]
	assert.Equal(t, "transferencia", stored.PaymentMethod)
	assert.NotNil(t, stored.PaymentDate)
}

func TestRecordPayment_CuotasSeSuman(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	res, err := l.CreateFromEstimate(ctx, order.CreateInput{ClientID: "C1", Items: threeKgTwentyPieces()})
	require.NoError(t, err)

	_, err = l.RecordPayment(ctx, order.PaymentInput{IncomeOperationID: res.IncomeOp.ID, Amount: decimal.NewFromInt(400)})
	require.NoError(t, err)
	ord, err := l.RecordPayment(ctx, order.PaymentInput{IncomeOperationID: res.IncomeOp.ID, Amount: decimal.NewFromInt(445)})
	require.NoError(t, err)

	assert.True(t, ord.TotalIncome.Equal(decimal.NewFromInt(845)))
}

func TestRecordPayment_SobrepagoRepresentable(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	res, err := l.CreateFromEstimate(ctx, order.CreateInput{ClientID: "C1", Items: threeKgTwentyPieces()})
	require.NoError(t, err)

	// Sin tope contra invoice_amount.
	ord, err := l.RecordPayment(ctx, order.PaymentInput{IncomeOperationID: res.IncomeOp.ID, Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.True(t, ord.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, ord.Profit.Equal(decimal.NewFromInt(350)))
}

func TestRecordPayment_Errores(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.RecordPayment(ctx, order.PaymentInput{IncomeOperationID: "nope", Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.RecordPayment(ctx, order.PaymentInput{IncomeOperationID: "x", Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecalculate_IdempotenteYLeeActualAmount(t *testing.T) {
	l, s := newLedger(t)
	ctx := context.Background()

	res, err := l.CreateFromEstimate(ctx, order.CreateInput{ClientID: "C1", Items: threeKgTwentyPieces()})
	require.NoError(t, err)
	_, err = l.RecordPayment(ctx, order.PaymentInput{IncomeOperationID: res.IncomeOp.ID, Amount: decimal.NewFromInt(845)})
	require.NoError(t, err)

	first, err := l.Recalculate(ctx, res.Order.ID)
	require.NoError(t, err)
	second, err := l.Recalculate(ctx, res.Order.ID)
	require.NoError(t, err)

	// Idempotencia: misma instantánea en llamadas consecutivas.
	assert.True(t, first.TotalIncome.Equal(second.TotalIncome))
	assert.True(t, first.ActualCost.Equal(second.ActualCost))
	assert.True(t, first.Profit.Equal(second.Profit))
	assert.True(t, first.MarginPercent.Equal(second.MarginPercent))

	// Ajuste manual: actual_amount manda sobre calculated_amount.
	costRepo := &memCostRepo{s}
	require.NoError(t, costRepo.UpdateActualAmount(res.CostOps[0].ID, decimal.NewFromInt(500)))
	adjusted, err := l.Recalculate(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.True(t, adjusted.ActualCost.Equal(decimal.NewFromInt(700)), "500 + 200")
	assert.True(t, adjusted.Profit.Equal(decimal.NewFromInt(145)))
}

func TestRecalculate_PedidoInexistente(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Recalculate(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
