package repository

import (
	"time"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// MovementFilter filtra la bitácora de movimientos. LocationID matchea
// origen O destino. Campos vacíos/nil no filtran.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Type       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MovementRepository define el puerto de la bitácora append-only de
// movimientos. Solo Create escribe; no hay update ni delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(filter MovementFilter) ([]*entity.Movement, error)
	CountByType(from, to *time.Time) ([]entity.MovementTypeCount, error)
	CountSince(t time.Time) (int64, error)
}
