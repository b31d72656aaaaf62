package broadcast_test

import (
	"testing"
	"time"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/agentaudit/auditgate/pkg/infra/broadcast"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(buffer int) *broadcast.Hub {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return broadcast.NewHub(logger, buffer)
}

func record() auditlog.AuditLog {
	return auditlog.AuditLog{
		ID:       uuid.New(),
		Query:    "q",
		Response: "r",
		Audit:    auditlog.RiskAssessment{RiskScore: 0, Details: "d"},
		Status:   auditlog.StatusSafe,
	}
}

func TestHub_DeliversToAllSubscribers(t *testing.T) {
	hub := newTestHub(8)
	defer hub.Close()

	first := hub.Subscribe()
	second := hub.Subscribe()

	published := record()
	hub.Publish(published)

	for _, sub := range []*broadcast.Subscription{first, second} {
		select {
		case got := <-sub.Records():
			assert.Equal(t, published.ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the record")
		}
	}
}

func TestHub_PerSubscriberOrdering(t *testing.T) {
	hub := newTestHub(16)
	defer hub.Close()

	sub := hub.Subscribe()

	var published []uuid.UUID
	for i := 0; i < 10; i++ {
		r := record()
		published = append(published, r.ID)
		hub.Publish(r)
	}

	for i := 0; i < 10; i++ {
		select {
		case got := <-sub.Records():
			assert.Equal(t, published[i], got.ID, "records must arrive in publish order")
		case <-time.After(time.Second):
			t.Fatal("missing record")
		}
	}
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := newTestHub(2)
	defer hub.Close()

	sub := hub.Subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// buffer is 2; the rest must be dropped, not block
		for i := 0; i < 10; i++ {
			hub.Publish(record())
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	received := 0
	for {
		select {
		case <-sub.Records():
			received++
		default:
			assert.Equal(t, 2, received, "only the buffered records survive")
			return
		}
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := newTestHub(8)
	defer hub.Close()

	sub := hub.Subscribe()
	sub.Close()

	// must not panic on a closed subscription
	hub.Publish(record())

	_, open := <-sub.Records()
	assert.False(t, open, "channel must be closed after unsubscribe")
}

func TestHub_CloseDropsSubscribers(t *testing.T) {
	hub := newTestHub(8)
	sub := hub.Subscribe()

	hub.Close()

	_, open := <-sub.Records()
	require.False(t, open)

	// publish after close is a no-op
	hub.Publish(record())
}
