package domain

// Order statuses (contract side).
const (
	OrderNew        = "new"
	OrderInProgress = "in_progress"
	OrderDone       = "done"
	OrderCanceled   = "canceled"
)

// Production order statuses (factory side).
const (
	ProductionQueued   = "queued"
	ProductionBuilding = "building"
	ProductionFinished = "finished"
)

// Order is the contract derived from an accepted quote. One per quote.
type Order struct {
	ID          string  `db:"id"`
	OrderNumber string  `db:"order_number"`
	QuoteID     string  `db:"quote_id"`
	CustomerName string `db:"customer_name"`
	Total       float64 `db:"total"`
	Status      string  `db:"status"`
	CreatedAt   string  `db:"created_at"`
}

// ProductionOrder is a factory work ticket with a material checklist
// derived from the quote's line items.
type ProductionOrder struct {
	ID          string `db:"id"`
	OrderID     string `db:"order_id"`
	TicketNumber string `db:"ticket_number"`
	Checklist   string `db:"checklist_json"`
	Status      string `db:"status"`
	CreatedAt   string `db:"created_at"`
}
