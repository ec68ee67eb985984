package movement

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// Límites de paginación de la bitácora.
const (
	defaultLimit = 50
	maxLimit     = 500
)

const statsCacheKey = "movements:stats"
const statsCacheTTL = 30 * time.Second

// Stats agrupa los contadores agregados de la bitácora.
type Stats struct {
	Today  int64                      `json:"today"`
	ByType []entity.MovementTypeCount `json:"by_type"`
}

// StatsCache cachea los contadores agregados (lecturas frecuentes del
// dashboard). Opcional: nil desactiva el caché.
type StatsCache interface {
	Get(ctx context.Context, key string) (*Stats, bool, error)
	Set(ctx context.Context, key string, value *Stats, ttl time.Duration) error
}

// Log es la superficie de consulta de la bitácora append-only de
// movimientos. Solo lectura: no existe camino de mutación.
type Log struct {
	movRepo repository.MovementRepository
	cache   StatsCache
}

// NewLog construye la superficie de consulta. cache puede ser nil.
func NewLog(movRepo repository.MovementRepository, cache StatsCache) *Log {
	return &Log{movRepo: movRepo, cache: cache}
}

// List devuelve movimientos según el filtro. LocationID matchea origen o
// destino. Normaliza la paginación y valida el rango de fechas.
func (l *Log) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.ErrInvalidInput
	}
	switch filter.Type {
	case "", entity.MovementTypeINBOUND, entity.MovementTypeTRANSFER, entity.MovementTypeWRITEOFF:
	default:
		return nil, domain.ErrInvalidInput
	}
	return l.movRepo.List(filter)
}

// Stats devuelve los contadores agregados: movimientos de hoy y totales por
// tipo. Pasa por el caché (TTL corto) antes de ir a la base.
func (l *Log) Stats(ctx context.Context) (*Stats, error) {
	if l.cache != nil {
		if cached, ok, err := l.cache.Get(ctx, statsCacheKey); err == nil && ok {
			return cached, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("caché de estadísticas de movimientos no disponible")
		}
	}

	byType, err := l.movRepo.CountByType(nil, nil)
	if err != nil {
		return nil, err
	}
	startOfDay := time.Now().Truncate(24 * time.Hour)
	today, err := l.movRepo.CountSince(startOfDay)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Today: today, ByType: byType}
	if l.cache != nil {
		if err := l.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			log.Warn().Err(err).Msg("no se pudo escribir el caché de estadísticas")
		}
	}
	return stats, nil
}

// CountByType expone los totales por tipo en un rango de fechas (auditoría).
func (l *Log) CountByType(ctx context.Context, from, to *time.Time) ([]entity.MovementTypeCount, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, domain.ErrInvalidInput
	}
	return l.movRepo.CountByType(from, to)
}
