package http

import (
	"strconv"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/agentaudit/auditgate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type listAuditLogsHandler struct {
	logger *logrus.Logger
	repo   auditlog.Repository
}

func NewListAuditLogsHandler(
	logger *logrus.Logger,
	repo auditlog.Repository,
) Handler {
	return &listAuditLogsHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *listAuditLogsHandler) Handle(c *fiber.Ctx) error {
	limit := defaultListLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 && val <= maxListLimit {
			limit = val
		}
	}

	records, err := h.repo.List(c.UserContext(), limit, true)
	if err != nil {
		h.logger.WithError(err).Error("failed to list audit logs")
		return c.Status(fiber.StatusInternalServerError).JSON(
			response.NewErrorResponse("storage_failed", "failed to list audit logs", fiber.StatusInternalServerError),
		)
	}

	if records == nil {
		records = []auditlog.AuditLog{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"audit_logs": records,
		"count":      len(records),
		"limit":      limit,
	})
}
