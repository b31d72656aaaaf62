package http

import (
	"strconv"

	appauditlog "github.com/agentaudit/auditgate/pkg/app/auditlog"
	"github.com/agentaudit/auditgate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const defaultSummaryWindow = 100

type getAuditSummaryHandler struct {
	logger     *logrus.Logger
	summarizer appauditlog.Summarizer
}

func NewGetAuditSummaryHandler(
	logger *logrus.Logger,
	summarizer appauditlog.Summarizer,
) Handler {
	return &getAuditSummaryHandler{
		logger:     logger,
		summarizer: summarizer,
	}
}

func (h *getAuditSummaryHandler) Handle(c *fiber.Ctx) error {
	window := defaultSummaryWindow
	if windowStr := c.Query("window"); windowStr != "" {
		if val, err := strconv.Atoi(windowStr); err == nil && val > 0 {
			window = val
		}
	}

	summary, err := h.summarizer.Summarize(c.UserContext(), window)
	if err != nil {
		h.logger.WithError(err).Error("failed to compute audit summary")
		return c.Status(fiber.StatusInternalServerError).JSON(
			response.NewErrorResponse("storage_failed", "failed to compute audit summary", fiber.StatusInternalServerError),
		)
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
