package broadcast

import (
	"sync"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/agentaudit/auditgate/pkg/infra/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultBufferSize = 64

// Hub fans newly created audit records out to live subscribers. Each
// subscriber owns a buffered channel; when the buffer is full the event is
// dropped for that subscriber instead of blocking the publisher. Dropped
// events are recoverable through the list endpoint, de-duplicated by id on
// the subscriber side.
type Hub struct {
	logger     *logrus.Logger
	mu         sync.RWMutex
	subs       map[uuid.UUID]chan auditlog.AuditLog
	bufferSize int
	closed     bool
}

type Subscription struct {
	id  uuid.UUID
	ch  chan auditlog.AuditLog
	hub *Hub
}

// Records yields published audit records in publish order for this
// subscriber.
func (s *Subscription) Records() <-chan auditlog.AuditLog {
	return s.ch
}

func (s *Subscription) Close() {
	s.hub.unsubscribe(s.id)
}

func NewHub(logger *logrus.Logger, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		logger:     logger,
		subs:       make(map[uuid.UUID]chan auditlog.AuditLog),
		bufferSize: bufferSize,
	}
}

func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New()
	ch := make(chan auditlog.AuditLog, h.bufferSize)
	if !h.closed {
		h.subs[id] = ch
	} else {
		close(ch)
	}
	metrics.StreamSubscribers.Set(float64(len(h.subs)))

	return &Subscription{id: id, ch: ch, hub: h}
}

// Publish delivers the record to every current subscriber without ever
// blocking the caller.
func (h *Hub) Publish(record auditlog.AuditLog) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- record:
		default:
			metrics.EventsDroppedTotal.Inc()
			h.logger.WithFields(logrus.Fields{
				"subscriber": id,
				"record_id":  record.ID,
			}).Warn("subscriber buffer full, dropping event")
		}
	}
}

func (h *Hub) unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
	metrics.StreamSubscribers.Set(float64(len(h.subs)))
}

// Close drops every subscriber. Pending buffered events remain readable
// until each channel drains.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	metrics.StreamSubscribers.Set(0)
}
