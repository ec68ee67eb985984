package entity

import "time"

// Warehouse representa un almacén físico del operador de fulfillment.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
