package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"poolquote/internal/domain"
	"poolquote/internal/repos"

	"github.com/google/uuid"
)

var (
	ErrQuoteNotAccepted = errors.New("quote is not accepted")
	ErrOrderExists      = errors.New("quote already has an order")
)

type OrderService struct {
	Orders *repos.OrderRepo
	Quotes *repos.QuoteRepo
}

func NewOrderService(orders *repos.OrderRepo, quotes *repos.QuoteRepo) *OrderService {
	return &OrderService{Orders: orders, Quotes: quotes}
}

// CreateFromQuote converts an accepted quote into its contract order.
// A quote can produce exactly one order.
func (s *OrderService) CreateFromQuote(quoteID string) (domain.Order, error) {
	q, err := s.Quotes.Get(quoteID)
	if err != nil {
		return domain.Order{}, err
	}
	if q.Status != domain.QuoteAccepted {
		return domain.Order{}, ErrQuoteNotAccepted
	}
	if _, err := s.Orders.ByQuote(quoteID); err == nil {
		return domain.Order{}, ErrOrderExists
	} else if err != sql.ErrNoRows {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:           uuid.NewString(),
		OrderNumber:  fmt.Sprintf("OBJ-%d-%s", time.Now().Year(), q.QuoteNumber),
		QuoteID:      q.ID,
		CustomerName: q.CustomerName,
		Total:        q.TotalPrice,
		Status:       domain.OrderNew,
	}
	if err := s.Orders.Create(o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// ChecklistItem is one material row on a factory ticket.
type ChecklistItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Done     bool    `json:"done"`
}

// material categories that belong on a factory ticket; services and
// transport lines do not.
var materialCategories = map[string]bool{
	domain.CategoryPools:       true,
	domain.CategorySkeletons:   true,
	domain.CategorySets:        true,
	domain.CategoryAccessories: true,
	domain.CategoryTechnology:  true,
}

// CreateProductionTicket opens a factory work ticket for an order, its
// checklist derived from the source quote's material items.
func (s *OrderService) CreateProductionTicket(orderID string) (domain.ProductionOrder, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.ProductionOrder{}, err
	}
	items, err := s.Quotes.Items(o.QuoteID)
	if err != nil {
		return domain.ProductionOrder{}, err
	}

	var checklist []ChecklistItem
	for _, it := range items {
		if !materialCategories[it.Category] {
			continue
		}
		checklist = append(checklist, ChecklistItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Unit:     it.Unit,
		})
	}
	b, err := json.Marshal(checklist)
	if err != nil {
		return domain.ProductionOrder{}, err
	}

	existing, err := s.Orders.ProductionOrders(orderID)
	if err != nil {
		return domain.ProductionOrder{}, err
	}

	po := domain.ProductionOrder{
		ID:           uuid.NewString(),
		OrderID:      orderID,
		TicketNumber: fmt.Sprintf("%s/V%d", o.OrderNumber, len(existing)+1),
		Checklist:    string(b),
		Status:       domain.ProductionQueued,
	}
	if err := s.Orders.CreateProduction(po); err != nil {
		return domain.ProductionOrder{}, err
	}
	return po, nil
}
