package websocket

import (
	"github.com/agentaudit/auditgate/pkg/infra/broadcast"
	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

// streamAuditLogsHandler pushes every newly created audit record to the
// connected client as a JSON frame. Missed records (slow client, buffer
// overflow) are recoverable via the list endpoint, de-duplicated by id.
type streamAuditLogsHandler struct {
	logger *logrus.Logger
	hub    *broadcast.Hub
}

func NewStreamAuditLogsHandler(
	logger *logrus.Logger,
	hub *broadcast.Hub,
) Handler {
	return &streamAuditLogsHandler{
		logger: logger,
		hub:    hub,
	}
}

func (h *streamAuditLogsHandler) Handle(c *websocket.Conn) {
	sub := h.hub.Subscribe()
	defer sub.Close()
	defer func() { _ = c.Close() }()

	h.logger.Debug("stream subscriber connected")

	// Reads are only used to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			h.logger.Debug("stream subscriber disconnected")
			return
		case record, ok := <-sub.Records():
			if !ok {
				return
			}
			if err := c.WriteJSON(record); err != nil {
				h.logger.WithError(err).Debug("stream write failed, dropping subscriber")
				return
			}
		}
	}
}
