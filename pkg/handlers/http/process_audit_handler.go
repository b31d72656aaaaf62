package http

import (
	"errors"

	"github.com/agentaudit/auditgate/pkg/app/pipeline"
	"github.com/agentaudit/auditgate/pkg/handlers/http/request"
	"github.com/agentaudit/auditgate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// StatusClientClosedRequest mirrors nginx's non-standard code for requests
// abandoned by the client.
const StatusClientClosedRequest = 499

type processAuditHandler struct {
	logger   *logrus.Logger
	pipeline pipeline.Processor
}

func NewProcessAuditHandler(
	logger *logrus.Logger,
	auditPipeline pipeline.Processor,
) Handler {
	return &processAuditHandler{
		logger:   logger,
		pipeline: auditPipeline,
	}
}

func (h *processAuditHandler) Handle(c *fiber.Ctx) error {
	var req request.ProcessAuditRequest

	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Debug("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(
			response.NewErrorResponse("invalid_request", "request body must be valid JSON", fiber.StatusBadRequest),
		)
	}

	record, err := h.pipeline.Process(c.UserContext(), req.UserQuery)
	if err != nil {
		return h.mapPipelineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (h *processAuditHandler) mapPipelineError(c *fiber.Ctx, err error) error {
	var validationErr *pipeline.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(
			response.NewErrorResponse("validation_failed", validationErr.Detail, fiber.StatusBadRequest),
		)
	}

	var cancelledErr *pipeline.CancelledError
	if errors.As(err, &cancelledErr) {
		return c.Status(StatusClientClosedRequest).JSON(
			response.NewErrorResponse("request_cancelled", "request was cancelled before completion", StatusClientClosedRequest),
		)
	}

	var workerErr *pipeline.WorkerUnavailableError
	if errors.As(err, &workerErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(
			response.NewErrorResponse("worker_unavailable", "the worker model could not produce a response", fiber.StatusInternalServerError),
		)
	}

	var storageErr *pipeline.StorageError
	if errors.As(err, &storageErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(
			response.NewErrorResponse("storage_failed", "the audit record could not be persisted", fiber.StatusInternalServerError),
		)
	}

	h.logger.WithError(err).Error("unexpected pipeline error")
	return c.Status(fiber.StatusInternalServerError).JSON(
		response.NewErrorResponse("internal_error", "unexpected error processing request", fiber.StatusInternalServerError),
	)
}
