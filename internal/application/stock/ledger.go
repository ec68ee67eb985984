package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// Ledger ejecuta las mutaciones físicas de stock (recepción, traslado y baja)
// de forma transaccional, con bloqueo de fila (SELECT FOR UPDATE) y
// recomputando el estado FREE/OCCUPIED de cada ubicación tocada.
type Ledger struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.StorageLocationRepository
	financial    FinancialEntryWriter
}

// NewLedger construye el ledger de stock.
func NewLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.StorageLocationRepository,
	financial FinancialEntryWriter,
) *Ledger {
	return &Ledger{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		financial:    financial,
	}
}

// ReceiveInput entrada para una recepción (INBOUND).
type ReceiveInput struct {
	ProductID    string
	ToLocationID string
	Quantity     int64
	BatchNumber  string
	Reason       string
	UserID       string
}

// TransferInput entrada para un traslado entre ubicaciones.
type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       int64
	BatchNumber    string
	Reason         string
	UserID         string
}

// WriteOffInput entrada para una baja de stock. Reason es obligatorio.
type WriteOffInput struct {
	ProductID   string
	LocationID  string
	Quantity    int64
	Reason      string
	BatchNumber string
	UserID      string
}

// TransferResult registros resultantes en origen y destino tras un traslado.
type TransferResult struct {
	From *entity.StockRecord
	To   *entity.StockRecord
}

// Receive incrementa (o crea) el registro (producto, ubicación, lote), suma
// quantity y availableQty, agrega el movimiento INBOUND y deja la ubicación
// OCCUPIED. Todo en una transacción.
func (l *Ledger) Receive(ctx context.Context, in ReceiveInput) (*entity.StockRecord, error) {
	if in.ProductID == "" || in.ToLocationID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := l.checkProduct(in.ProductID); err != nil {
		return nil, err
	}
	if err := l.checkLocation(in.ToLocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	var result *entity.StockRecord
	err := l.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		locationRepo repository.StorageLocationRepository,
		movRepo repository.MovementRepository,
	) error {
		rec, err := stockRepo.GetForUpdate(in.ProductID, in.ToLocationID, in.BatchNumber)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = &entity.StockRecord{
				ID:                uuid.New().String(),
				ProductID:         in.ProductID,
				StorageLocationID: in.ToLocationID,
				BatchNumber:       in.BatchNumber,
			}
		}
		rec.Quantity += in.Quantity
		rec.AvailableQty += in.Quantity
		rec.LastMovementAt = now
		if err := stockRepo.Upsert(rec); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.Movement{
			ID:           uuid.New().String(),
			ProductID:    in.ProductID,
			ToLocationID: in.ToLocationID,
			Quantity:     in.Quantity,
			Type:         entity.MovementTypeINBOUND,
			BatchNumber:  in.BatchNumber,
			Reason:       in.Reason,
			CreatedBy:    in.UserID,
			CreatedAt:    now,
		}); err != nil {
			return err
		}
		if err := refreshLocationStatus(stockRepo, locationRepo, in.ToLocationID); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transfer mueve quantity del registro origen al destino (mismo producto y
// lote). Falla con ErrInsufficientStock si availableQty del origen no
// alcanza. Decremento, incremento, movimiento TRANSFER y los dos estados de
// ubicación son una sola unidad atómica.
func (l *Ledger) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.ProductID == "" || in.FromLocationID == "" || in.ToLocationID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	if err := l.checkProduct(in.ProductID); err != nil {
		return nil, err
	}
	if err := l.checkLocation(in.FromLocationID); err != nil {
		return nil, err
	}
	if err := l.checkLocation(in.ToLocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	var result *TransferResult
	err := l.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		locationRepo repository.StorageLocationRepository,
		movRepo repository.MovementRepository,
	) error {
		// Bloquea la fila origen antes de verificar disponibilidad: el chequeo
		// y el decremento no pueden separarse por otro escritor.
		origin, err := stockRepo.GetForUpdate(in.ProductID, in.FromLocationID, in.BatchNumber)
		if err != nil {
			return err
		}
		if origin == nil || origin.AvailableQty < in.Quantity {
			return domain.ErrInsufficientStock
		}
		dest, err := stockRepo.GetForUpdate(in.ProductID, in.ToLocationID, in.BatchNumber)
		if err != nil {
			return err
		}
		if dest == nil {
			dest = &entity.StockRecord{
				ID:                uuid.New().String(),
				ProductID:         in.ProductID,
				StorageLocationID: in.ToLocationID,
				BatchNumber:       in.BatchNumber,
			}
		}
		origin.Quantity -= in.Quantity
		origin.AvailableQty -= in.Quantity
		origin.LastMovementAt = now
		dest.Quantity += in.Quantity
		dest.AvailableQty += in.Quantity
		dest.LastMovementAt = now
		if err := stockRepo.Upsert(origin); err != nil {
			return err
		}
		if err := stockRepo.Upsert(dest); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.Movement{
			ID:             uuid.New().String(),
			ProductID:      in.ProductID,
			FromLocationID: in.FromLocationID,
			ToLocationID:   in.ToLocationID,
			Quantity:       in.Quantity,
			Type:           entity.MovementTypeTRANSFER,
			BatchNumber:    in.BatchNumber,
			Reason:         in.Reason,
			CreatedBy:      in.UserID,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		if err := refreshLocationStatus(stockRepo, locationRepo, in.FromLocationID); err != nil {
			return err
		}
		if err := refreshLocationStatus(stockRepo, locationRepo, in.ToLocationID); err != nil {
			return err
		}
		result = &TransferResult{From: origin, To: dest}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// WriteOff da de baja quantity unidades del registro. availableQty baja solo
// hasta cero: una baja puede consumir stock reservado (ej. dañado en
// tránsito) sin dejar disponibilidad negativa. Si el producto tiene costo
// unitario positivo, notifica la pérdida al libro mayor DESPUÉS del commit.
func (l *Ledger) WriteOff(ctx context.Context, in WriteOffInput) (*entity.StockRecord, error) {
	if in.ProductID == "" || in.LocationID == "" || in.Reason == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := l.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := l.checkLocation(in.LocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	var result *entity.StockRecord
	err = l.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		locationRepo repository.StorageLocationRepository,
		movRepo repository.MovementRepository,
	) error {
		rec, err := stockRepo.GetForUpdate(in.ProductID, in.LocationID, in.BatchNumber)
		if err != nil {
			return err
		}
		if rec == nil || rec.Quantity < in.Quantity {
			return domain.ErrInsufficientStock
		}
		rec.Quantity -= in.Quantity
		rec.AvailableQty -= min(in.Quantity, rec.AvailableQty)
		rec.LastMovementAt = now
		if err := stockRepo.Upsert(rec); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.Movement{
			ID:             uuid.New().String(),
			ProductID:      in.ProductID,
			FromLocationID: in.LocationID,
			Quantity:       in.Quantity,
			Type:           entity.MovementTypeWRITEOFF,
			BatchNumber:    in.BatchNumber,
			Reason:         in.Reason,
			CreatedBy:      in.UserID,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		if err := refreshLocationStatus(stockRepo, locationRepo, in.LocationID); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Notificación contable best-effort, fuera del contrato atómico.
	l.notifyWriteOffLoss(ctx, product, in)

	return result, nil
}

func (l *Ledger) notifyWriteOffLoss(ctx context.Context, product *entity.Product, in WriteOffInput) {
	if l.financial == nil || !product.UnitCost.GreaterThan(decimal.Zero) {
		return
	}
	loss := product.UnitCost.Mul(decimal.NewFromInt(in.Quantity))
	desc := fmt.Sprintf("Baja de stock: %s x%d (%s)", product.Name, in.Quantity, in.Reason)
	if err := l.financial.Write(ctx, loss, desc); err != nil {
		log.Warn().Err(err).
			Str("product_id", product.ID).
			Str("amount", loss.String()).
			Msg("no se pudo registrar el asiento de pérdida por baja")
	}
}

func (l *Ledger) checkProduct(id string) error {
	p, err := l.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (l *Ledger) checkLocation(id string) error {
	loc, err := l.locationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return nil
}

// refreshLocationStatus deriva FREE/OCCUPIED de la suma de cantidades en la
// ubicación y lo materializa. Única vía por la que cambia el estado.
func refreshLocationStatus(
	stockRepo repository.StockRecordRepository,
	locationRepo repository.StorageLocationRepository,
	locationID string,
) error {
	total, err := stockRepo.SumQuantityAtLocation(locationID)
	if err != nil {
		return err
	}
	return locationRepo.UpdateStatus(locationID, entity.StatusForTotal(total))
}
