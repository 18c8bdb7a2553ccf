package handlers

import (
	"poolquote/internal/assets"
	"poolquote/internal/config"
	"poolquote/internal/repos"
	"poolquote/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ConfiguratorHandler *ConfiguratorHandler
	QuoteHandler        *QuoteHandler
	ProductHandler      *ProductHandler
	OrderHandler        *OrderHandler
	AdminHandler        *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, setCodes map[string]string, cache *assets.Cache) *Deps {
	prodRepo := repos.NewProductRepo(db)
	ruleRepo := repos.NewMappingRuleRepo(db)
	configRepo := repos.NewConfigurationRepo(db)
	quoteRepo := repos.NewQuoteRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	builder := services.NewQuoteBuilder(prodRepo, ruleRepo, setCodes)
	catalogSvc := services.NewCatalogService(prodRepo, ruleRepo)
	configSvc := services.NewConfigurationService(configRepo)
	quoteSvc := services.NewQuoteService(quoteRepo, configRepo, builder)
	orderSvc := services.NewOrderService(orderRepo, quoteRepo)

	return &Deps{
		ConfiguratorHandler: &ConfiguratorHandler{Configs: configSvc, Quotes: quoteSvc},
		QuoteHandler:        &QuoteHandler{Quotes: quoteSvc, Repo: quoteRepo, Assets: cache},
		ProductHandler:      &ProductHandler{Catalog: catalogSvc},
		OrderHandler:        &OrderHandler{Orders: orderSvc, Repo: orderRepo},
		AdminHandler:        &AdminHandler{Configs: configSvc, Catalog: catalogSvc, QuoteRepo: quoteRepo, OrderRepo: orderRepo, Users: userRepo},
	}
}
