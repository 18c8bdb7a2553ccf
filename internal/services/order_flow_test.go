package services_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"poolquote/internal/domain"
	"poolquote/internal/repos"
	"poolquote/internal/services"
)

func TestOrderFromAcceptedQuote(t *testing.T) {
	db := memdb(t)
	quoteSvc, configs, quoteRepo := newQuoteService(db, nil)
	orderRepo := repos.NewOrderRepo(db)
	orderSvc := services.NewOrderService(orderRepo, quoteRepo)

	cfg, err := configs.Create(domain.Configuration{
		Shape: "rectangle", Width: 3, Length: 6, Depth: 1.5,
		WaterTreatment: "salt", CustomerName: "Jan Novák",
	})
	if err != nil {
		t.Fatal(err)
	}
	q, _, err := quoteSvc.GenerateFromConfiguration(cfg.ID)
	if err != nil {
		t.Fatal(err)
	}

	// only accepted quotes convert
	if _, err := orderSvc.CreateFromQuote(q.ID); !errors.Is(err, services.ErrQuoteNotAccepted) {
		t.Fatalf("draft quote must not convert, got %v", err)
	}

	if err := quoteSvc.Transition(q.ID, domain.QuoteSent); err != nil {
		t.Fatal(err)
	}
	if err := quoteSvc.Transition(q.ID, domain.QuoteAccepted); err != nil {
		t.Fatal(err)
	}

	o, err := orderSvc.CreateFromQuote(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(o.OrderNumber, "OBJ-") || o.QuoteID != q.ID {
		t.Fatalf("bad order: %+v", o)
	}
	if o.Total != q.TotalPrice || o.CustomerName != "Jan Novák" {
		t.Fatalf("order must carry the quote total and customer: %+v", o)
	}

	// one order per quote
	if _, err := orderSvc.CreateFromQuote(q.ID); !errors.Is(err, services.ErrOrderExists) {
		t.Fatalf("second conversion must fail, got %v", err)
	}
}

func TestProductionTicketChecklist(t *testing.T) {
	db := memdb(t)
	quoteSvc, _, quoteRepo := newQuoteService(db, nil)
	orderRepo := repos.NewOrderRepo(db)
	orderSvc := services.NewOrderService(orderRepo, quoteRepo)

	q, err := quoteSvc.CreateManual("Test", "t@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := quoteSvc.SaveItems(q.ID, []domain.QuoteItem{
		{Name: "Bazénový skelet obdélník", Category: domain.CategorySkeletons, Quantity: 1, Unit: "ks", UnitPrice: 65250, TotalPrice: 65250},
		{Name: "Solná úpravna vody", Category: domain.CategoryTechnology, Quantity: 1, Unit: "ks", UnitPrice: 24900, TotalPrice: 24900},
		{Name: "Doprava a montáž", Category: domain.CategoryTransport, Quantity: 1, Unit: "ks", UnitPrice: 4900, TotalPrice: 4900},
	}); err != nil {
		t.Fatal(err)
	}
	if err := quoteSvc.Transition(q.ID, domain.QuoteSent); err != nil {
		t.Fatal(err)
	}
	if err := quoteSvc.Transition(q.ID, domain.QuoteAccepted); err != nil {
		t.Fatal(err)
	}
	o, err := orderSvc.CreateFromQuote(q.ID)
	if err != nil {
		t.Fatal(err)
	}

	po, err := orderSvc.CreateProductionTicket(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if po.TicketNumber != o.OrderNumber+"/V1" {
		t.Fatalf("bad ticket number: %s", po.TicketNumber)
	}

	var checklist []services.ChecklistItem
	if err := json.Unmarshal([]byte(po.Checklist), &checklist); err != nil {
		t.Fatal(err)
	}
	if len(checklist) != 2 {
		t.Fatalf("transport lines do not belong on a factory ticket: %+v", checklist)
	}
	for _, c := range checklist {
		if c.Name == "Doprava a montáž" {
			t.Fatalf("transport line leaked into the checklist: %+v", checklist)
		}
		if c.Done {
			t.Fatalf("new checklist rows start unchecked: %+v", c)
		}
	}

	// tickets number sequentially per order
	po2, err := orderSvc.CreateProductionTicket(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if po2.TicketNumber != o.OrderNumber+"/V2" {
		t.Fatalf("bad second ticket number: %s", po2.TicketNumber)
	}
}
