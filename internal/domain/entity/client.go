package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTariffRate multiplicador aplicado al costo estimado para facturar
// al cliente cuando no tiene tarifa propia configurada.
var DefaultTariffRate = decimal.NewFromFloat(1.3)

// Client representa un cliente del operador (dueño de la mercancía y de los pedidos).
// TariffRate en cero significa "sin configurar"; en ese caso aplica DefaultTariffRate.
type Client struct {
	ID         string
	Name       string
	Email      string
	TariffRate decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectiveTariffRate devuelve la tarifa a aplicar al cliente.
func (c *Client) EffectiveTariffRate() decimal.Decimal {
	if c == nil || c.TariffRate.LessThanOrEqual(decimal.Zero) {
		return DefaultTariffRate
	}
	return c.TariffRate
}
