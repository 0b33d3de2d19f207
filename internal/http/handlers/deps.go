package handlers

import (
	"github.com/asaskevich/EventBus"

	"github.com/ruruk/palcofon/internal/config"
	"github.com/ruruk/palcofon/internal/repos"
	"github.com/ruruk/palcofon/internal/services"
)

type Deps struct {
	PageHandler        *PageHandler
	ProductHandler     *ProductHandler
	ApplicationHandler *ApplicationHandler
	InquiryHandler     *InquiryHandler
	ContactHandler     *ContactHandler
	AdminHandler       *AdminHandler

	InquirySvc *services.InquiryService
}

func NewDeps(cfg config.Config, cat *repos.Catalog, settings *repos.SettingsRepo, inqRepo *repos.InquiryRepo, bus EventBus.Bus) *Deps {
	catalogSvc := services.NewCatalogService(cat, bus)
	inquirySvc := services.NewInquiryService(inqRepo, bus)
	relaySvc := services.NewRelayService(cfg.RelayContactURL, cfg.RelayInquiryURL)

	return &Deps{
		PageHandler:        &PageHandler{Catalog: catalogSvc, Settings: settings},
		ProductHandler:     &ProductHandler{Catalog: catalogSvc},
		ApplicationHandler: &ApplicationHandler{Catalog: catalogSvc},
		InquiryHandler:     &InquiryHandler{Inquiry: inquirySvc, Catalog: catalogSvc, Relay: relaySvc},
		ContactHandler:     &ContactHandler{Relay: relaySvc},
		AdminHandler:       &AdminHandler{Catalog: cat, Settings: settings, Query: catalogSvc},

		InquirySvc: inquirySvc,
	}
}
