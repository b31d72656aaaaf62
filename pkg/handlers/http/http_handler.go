package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Audits
	ProcessAuditHandler    Handler
	ListAuditLogsHandler   Handler
	GetAuditSummaryHandler Handler

	// Misc
	GetVersionHandler Handler
}
