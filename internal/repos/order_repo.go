package repos

import (
	"poolquote/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
  INSERT INTO orders(id, order_number, quote_id, customer_name, total, status)
  VALUES(?,?,?,?,?,?)`,
		o.ID, o.OrderNumber, o.QuoteID, o.CustomerName, o.Total, o.Status)
	return err
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
  SELECT id, order_number, quote_id, customer_name, total, status, created_at
  FROM orders WHERE id = ?`, id)
	return o, err
}

// ByQuote finds the order derived from a quote, if any. The schema's
// UNIQUE(quote_id) enforces the one-order-per-quote rule.
func (r *OrderRepo) ByQuote(quoteID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
  SELECT id, order_number, quote_id, customer_name, total, status, created_at
  FROM orders WHERE quote_id = ?`, quoteID)
	return o, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
  SELECT id, order_number, quote_id, customer_name, total, status, created_at
  FROM orders
  ORDER BY datetime(created_at) DESC
  LIMIT ?`, limit)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status=? WHERE id=?`, status, id)
	return err
}

func (r *OrderRepo) CreateProduction(po domain.ProductionOrder) error {
	_, err := r.db.Exec(`
  INSERT INTO production_orders(id, order_id, ticket_number, checklist_json, status)
  VALUES(?,?,?,?,?)`,
		po.ID, po.OrderID, po.TicketNumber, po.Checklist, po.Status)
	return err
}

func (r *OrderRepo) ProductionOrders(orderID string) ([]domain.ProductionOrder, error) {
	var out []domain.ProductionOrder
	err := r.db.Select(&out, `
  SELECT id, order_id, ticket_number, checklist_json, status, created_at
  FROM production_orders
  WHERE order_id = ?
  ORDER BY created_at, id`, orderID)
	return out, err
}

func (r *OrderRepo) UpdateProductionStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE production_orders SET status=? WHERE id=?`, status, id)
	return err
}
