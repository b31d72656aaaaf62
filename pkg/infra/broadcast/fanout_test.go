package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/agentaudit/auditgate/pkg/infra/cache/event"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, ev event.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func testRecord() auditlog.AuditLog {
	return auditlog.AuditLog{
		ID:     uuid.New(),
		Query:  "q",
		Status: auditlog.StatusSafe,
	}
}

func TestFanoutPublisher_DeliversLocallyAndToRedis(t *testing.T) {
	logger := logrus.New()
	hub := NewHub(logger, 4)
	sub := hub.Subscribe()
	defer sub.Close()

	record := testRecord()

	publisher := new(mockEventPublisher)
	publisher.On("Publish", mock.Anything, event.AuditLogCreatedEvent{
		InstanceID: "instance-a",
		Record:     record,
	}).Return(nil)

	fanout := NewFanoutPublisher(logger, hub, publisher, "instance-a")
	err := fanout.Publish(context.Background(), record)
	assert.NoError(t, err)

	select {
	case got := <-sub.Records():
		assert.Equal(t, record.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("expected record on local subscription")
	}
	publisher.AssertExpectations(t)
}

func TestFanoutPublisher_RedisFailureStillDeliversLocally(t *testing.T) {
	logger := logrus.New()
	hub := NewHub(logger, 4)
	sub := hub.Subscribe()
	defer sub.Close()

	publisher := new(mockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	fanout := NewFanoutPublisher(logger, hub, publisher, "instance-a")
	err := fanout.Publish(context.Background(), testRecord())
	assert.Error(t, err)

	select {
	case <-sub.Records():
	case <-time.After(time.Second):
		t.Fatal("expected record on local subscription despite redis failure")
	}
}

func TestFanoutPublisher_NilEventPublisherIsLocalOnly(t *testing.T) {
	logger := logrus.New()
	hub := NewHub(logger, 4)
	sub := hub.Subscribe()
	defer sub.Close()

	fanout := NewFanoutPublisher(logger, hub, nil, "instance-a")
	err := fanout.Publish(context.Background(), testRecord())
	assert.NoError(t, err)

	select {
	case <-sub.Records():
	case <-time.After(time.Second):
		t.Fatal("expected record on local subscription")
	}
}
