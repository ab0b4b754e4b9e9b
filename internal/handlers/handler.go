package handlers

import (
	"github.com/sentra-dev/sentra/internal/notifier"
)

// Handler carries the injected collaborators the endpoints need. Gateways,
// dispatcher and resolver are constructed once in main and passed in; there
// is no ambient messaging state.
type Handler struct {
	Dispatcher notifier.Dispatcher
	Resolver   *notifier.Resolver
	Registry   *notifier.ContactRegistry
	Audit      *notifier.AuditLog
	Telegram   *notifier.TelegramGateway
	Hub        *AlertHub
}

func New(dispatcher notifier.Dispatcher, resolver *notifier.Resolver, registry *notifier.ContactRegistry, audit *notifier.AuditLog, telegram *notifier.TelegramGateway, hub *AlertHub) *Handler {
	return &Handler{
		Dispatcher: dispatcher,
		Resolver:   resolver,
		Registry:   registry,
		Audit:      audit,
		Telegram:   telegram,
		Hub:        hub,
	}
}
