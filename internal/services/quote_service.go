package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"poolquote/internal/domain"
	"poolquote/internal/pricing"
	"poolquote/internal/repos"

	"github.com/google/uuid"
)

var (
	ErrBadTransition  = errors.New("invalid quote status transition")
	ErrUnknownVariant = errors.New("unknown variant tier")
)

// QuoteSnapshot is the opaque payload stored in quote_versions.
type QuoteSnapshot struct {
	Quote     domain.Quote      `json:"quote"`
	Items     []domain.QuoteItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

type QuoteService struct {
	Quotes  *repos.QuoteRepo
	Configs *repos.ConfigurationRepo
	Builder *QuoteBuilder
}

func NewQuoteService(quotes *repos.QuoteRepo, configs *repos.ConfigurationRepo, builder *QuoteBuilder) *QuoteService {
	return &QuoteService{Quotes: quotes, Configs: configs, Builder: builder}
}

// GenerateFromConfiguration builds and persists a draft quote for a
// stored configuration. The configuration facts are denormalized into
// the quote so later catalog edits cannot reshape an issued document.
func (s *QuoteService) GenerateFromConfiguration(configID string) (domain.Quote, []domain.QuoteItem, error) {
	cfg, err := s.Configs.Get(configID)
	if err != nil {
		return domain.Quote{}, nil, err
	}

	items, err := s.Builder.Build(cfg)
	if err != nil {
		return domain.Quote{}, nil, err
	}

	poolConfig, err := json.Marshal(cfg)
	if err != nil {
		return domain.Quote{}, nil, err
	}

	subtotal := pricing.Subtotal(items)
	q := domain.Quote{
		ID:              uuid.NewString(),
		ConfigurationID: cfg.ID,
		CustomerName:    cfg.CustomerName,
		CustomerEmail:   cfg.CustomerEmail,
		CustomerPhone:   cfg.CustomerPhone,
		PoolConfig:      string(poolConfig),
		Subtotal:        subtotal,
		TotalPrice:      pricing.ApplyDiscount(subtotal, 0, 0),
		Status:          domain.QuoteDraft,
		ValidUntil:      time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	}

	q, err = s.createNumbered(q, items)
	if err != nil {
		return domain.Quote{}, nil, err
	}
	return q, items, nil
}

// createNumbered assigns the next quote number and inserts, retrying
// when a concurrent create grabbed the same number first.
func (s *QuoteService) createNumbered(q domain.Quote, items []domain.QuoteItem) (domain.Quote, error) {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		q.QuoteNumber, err = s.Quotes.NextQuoteNumber(time.Now().Year())
		if err != nil {
			return domain.Quote{}, err
		}
		err = s.Quotes.Create(q, items)
		if err == nil {
			return q, nil
		}
		if !strings.Contains(err.Error(), "quotes.quote_number") {
			return domain.Quote{}, err
		}
	}
	return domain.Quote{}, fmt.Errorf("quote number contention: %w", err)
}

// Preview builds the priced items for a configuration without
// persisting anything; the configurator wizard shows this as an
// indicative price.
func (s *QuoteService) Preview(cfg domain.Configuration) ([]domain.QuoteItem, float64, error) {
	items, err := s.Builder.Build(cfg)
	if err != nil {
		return nil, 0, err
	}
	return items, pricing.Subtotal(items), nil
}

// CreateManual opens an empty draft quote unlinked to any configuration.
func (s *QuoteService) CreateManual(name, email, phone string) (domain.Quote, error) {
	q := domain.Quote{
		ID:            uuid.NewString(),
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
		Status:        domain.QuoteDraft,
		ValidUntil:    time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	}
	return s.createNumbered(q, nil)
}

// SaveItems replaces the quote's item set and recomputes totals with
// the quote's current discounts.
func (s *QuoteService) SaveItems(quoteID string, items []domain.QuoteItem) error {
	q, err := s.Quotes.Get(quoteID)
	if err != nil {
		return err
	}
	subtotal := pricing.Subtotal(items)
	total := pricing.ApplyDiscount(subtotal, q.DiscountPercent, q.DiscountAmount)
	return s.Quotes.ReplaceItems(quoteID, items, subtotal, total)
}

// SetDiscount updates the quote discounts and recomputes the total.
func (s *QuoteService) SetDiscount(quoteID string, percent, amount float64) (domain.Quote, error) {
	q, err := s.Quotes.Get(quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	q.DiscountPercent = percent
	q.DiscountAmount = amount
	q.TotalPrice = pricing.ApplyDiscount(q.Subtotal, percent, amount)
	if err := s.Quotes.UpdateHeader(q); err != nil {
		return domain.Quote{}, err
	}
	return q, nil
}

// allowed status moves: draft→sent, sent→accepted|rejected
var transitions = map[string][]string{
	domain.QuoteDraft: {domain.QuoteSent},
	domain.QuoteSent:  {domain.QuoteAccepted, domain.QuoteRejected},
}

// Transition moves a quote along its lifecycle, rejecting jumps.
func (s *QuoteService) Transition(quoteID, next string) error {
	q, err := s.Quotes.Get(quoteID)
	if err != nil {
		return err
	}
	for _, allowed := range transitions[q.Status] {
		if allowed == next {
			return s.Quotes.UpdateStatus(quoteID, next)
		}
	}
	return fmt.Errorf("%w: %s → %s", ErrBadTransition, q.Status, next)
}

// ---------- Versions ----------

func (s *QuoteService) snapshot(quoteID string) (string, domain.Quote, []domain.QuoteItem, error) {
	q, err := s.Quotes.Get(quoteID)
	if err != nil {
		return "", domain.Quote{}, nil, err
	}
	items, err := s.Quotes.Items(quoteID)
	if err != nil {
		return "", domain.Quote{}, nil, err
	}
	b, err := json.Marshal(QuoteSnapshot{Quote: q, Items: items, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", domain.Quote{}, nil, err
	}
	return string(b), q, items, nil
}

// SaveVersion appends an explicit point-in-time snapshot.
func (s *QuoteService) SaveVersion(quoteID, note string) (domain.QuoteVersion, error) {
	snap, _, _, err := s.snapshot(quoteID)
	if err != nil {
		return domain.QuoteVersion{}, err
	}
	return s.Quotes.InsertVersion(quoteID, snap, note)
}

// RestoreVersion replaces the current quote state with a stored one.
// The pre-restore state is always snapshotted first, in the same
// transaction, so a restore can itself be undone.
func (s *QuoteService) RestoreVersion(versionID string) error {
	v, err := s.Quotes.GetVersion(versionID)
	if err != nil {
		return err
	}

	var snap QuoteSnapshot
	if err := json.Unmarshal([]byte(v.Snapshot), &snap); err != nil {
		return fmt.Errorf("corrupt snapshot %s: %w", versionID, err)
	}

	backup, _, _, err := s.snapshot(v.QuoteID)
	if err != nil {
		return err
	}

	restored := snap.Quote
	restored.ID = v.QuoteID // snapshots always restore in place
	note := fmt.Sprintf("Automatická záloha před obnovením verze %d", v.VersionNumber)
	return s.Quotes.RestoreTx(backup, note, restored, snap.Items)
}

// ---------- Variants ----------

var variantOrder = map[string]int{
	domain.VariantEconomy: 0,
	domain.VariantOptimal: 1,
	domain.VariantPremium: 2,
}

// AddVariant attaches a named pricing tier to a quote.
func (s *QuoteService) AddVariant(quoteID, name string) (domain.QuoteVariant, error) {
	order, ok := variantOrder[name]
	if !ok {
		return domain.QuoteVariant{}, ErrUnknownVariant
	}
	v := domain.QuoteVariant{
		ID:        uuid.NewString(),
		QuoteID:   quoteID,
		Name:      name,
		SortOrder: order,
	}
	if err := s.Quotes.CreateVariant(v); err != nil {
		return domain.QuoteVariant{}, err
	}
	return v, nil
}

// AssignItem links an item into a variant and refreshes that variant's
// totals.
func (s *QuoteService) AssignItem(itemID, variantID string) error {
	if err := s.Quotes.AssignItemToVariant(itemID, variantID); err != nil {
		return err
	}
	return s.recomputeVariant(variantID)
}

func (s *QuoteService) UnassignItem(itemID, variantID string) error {
	if err := s.Quotes.UnassignItemFromVariant(itemID, variantID); err != nil {
		return err
	}
	return s.recomputeVariant(variantID)
}

// SetVariantDiscount applies a variant's own discounts, independent of
// the quote-level ones, with the same floor-at-zero rule.
func (s *QuoteService) SetVariantDiscount(variantID string, percent, amount float64) error {
	v, err := s.Quotes.GetVariant(variantID)
	if err != nil {
		return err
	}
	v.DiscountPercent = percent
	v.DiscountAmount = amount
	v.Subtotal, err = s.Quotes.VariantItemSubtotal(variantID)
	if err != nil {
		return err
	}
	v.TotalPrice = pricing.ApplyDiscount(v.Subtotal, percent, amount)
	return s.Quotes.UpdateVariantTotals(v)
}

func (s *QuoteService) recomputeVariant(variantID string) error {
	v, err := s.Quotes.GetVariant(variantID)
	if err != nil {
		return err
	}
	v.Subtotal, err = s.Quotes.VariantItemSubtotal(variantID)
	if err != nil {
		return err
	}
	v.TotalPrice = pricing.ApplyDiscount(v.Subtotal, v.DiscountPercent, v.DiscountAmount)
	return s.Quotes.UpdateVariantTotals(v)
}
