package repository

import "github.com/jhoicas/fulfillment-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
// UpdateSnapshot sobrescribe únicamente los campos financieros derivados
// (total_income, actual_cost, profit, margin_percent).
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	List(clientID string, limit, offset int) ([]*entity.Order, error)
	UpdateSnapshot(order *entity.Order) error
	CreateItem(item *entity.OrderItem) error
	ListItems(orderID string) ([]*entity.OrderItem, error)
}
