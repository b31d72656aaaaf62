package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/agentaudit/auditgate/pkg/infra/cache/channel"
	"github.com/agentaudit/auditgate/pkg/infra/cache/event"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	rdb *redis.Client
}

func (f *fakeClient) RedisClient() *redis.Client { return f.rdb }
func (f *fakeClient) Close() error               { return nil }

func TestRedisEventPublisher_PublishesEnvelope(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	record := auditlog.AuditLog{
		ID:       uuid.New(),
		Query:    "what is the capital of france?",
		Response: "Paris",
		Audit: auditlog.RiskAssessment{
			RiskScore: 1,
			Details:   "benign factual query",
		},
		Status: auditlog.StatusSafe,
	}
	ev := event.AuditLogCreatedEvent{
		InstanceID: "instance-a",
		Record:     record,
	}

	evBytes, err := json.Marshal(ev)
	assert.NoError(t, err)
	envelope, err := json.Marshal(RedisMessage{
		Type:  ev.Type(),
		Event: evBytes,
	})
	assert.NoError(t, err)

	mock.ExpectPublish(string(channel.AuditEventsChannel), envelope).SetVal(1)

	publisher := NewRedisEventPublisher(&fakeClient{rdb: rdb}, channel.AuditEventsChannel)
	err = publisher.Publish(context.Background(), ev)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisEventPublisher_PropagatesRedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.Regexp().ExpectPublish(string(channel.AuditEventsChannel), `.*`).SetErr(redis.ErrClosed)

	publisher := NewRedisEventPublisher(&fakeClient{rdb: rdb}, channel.AuditEventsChannel)
	err := publisher.Publish(context.Background(), event.AuditLogCreatedEvent{InstanceID: "instance-a"})

	assert.Error(t, err)
}
