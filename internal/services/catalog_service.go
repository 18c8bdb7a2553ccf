package services

import (
	"poolquote/internal/domain"
	"poolquote/internal/repos"

	"github.com/google/uuid"
)

type CatalogService struct {
	Products *repos.ProductRepo
	Rules    *repos.MappingRuleRepo
}

func NewCatalogService(products *repos.ProductRepo, rules *repos.MappingRuleRepo) *CatalogService {
	return &CatalogService{Products: products, Rules: rules}
}

func (s *CatalogService) Search(q, category string, includeInactive bool, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 25
	}
	offset := (page - 1) * pageSize
	return s.Products.Search(q, category, includeInactive, pageSize, offset)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Products.Get(id)
}

func (s *CatalogService) SaveProduct(p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
		return p, s.Products.Create(p)
	}
	return p, s.Products.Update(p)
}

func (s *CatalogService) SetProductActive(id string, active bool) error {
	return s.Products.SetActive(id, active)
}

func (s *CatalogService) Addons(productID string) ([]domain.SetAddon, error) {
	return s.Products.Addons(productID)
}

// SaveAddon stores a set addon, decoding the legacy name-pattern
// trigger when the admin did not set an explicit one. Decoding happens
// here, at authoring time, so generation never re-derives intent from
// display names.
func (s *CatalogService) SaveAddon(a domain.SetAddon) (domain.SetAddon, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.TriggerKind == "" {
		a.TriggerKind, a.TriggerValue = domain.DecodeAddonTrigger(a.Name)
	}
	return a, s.Products.UpsertAddon(a)
}

func (s *CatalogService) DeleteAddon(id string) error {
	return s.Products.DeleteAddon(id)
}

func (s *CatalogService) ListRules() ([]domain.MappingRule, error) {
	return s.Rules.ListAll()
}

func (s *CatalogService) SaveRule(m domain.MappingRule) (domain.MappingRule, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
		return m, s.Rules.Create(m)
	}
	return m, s.Rules.Update(m)
}

func (s *CatalogService) DeleteRule(id string) error {
	return s.Rules.Delete(id)
}

// UnassignedRuleCount feeds the dashboard's "N pravidel nemá přiřazený
// produkt" warning.
func (s *CatalogService) UnassignedRuleCount() (int, error) {
	return s.Rules.CountUnassigned()
}
