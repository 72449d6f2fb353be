package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/Joana-OrderBot/pkg/errors"
)

type mockKafkaConn struct {
	created    []kafka.TopicConfig
	createErr  error
	partitions []kafka.Partition
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	return m.partitions, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func TestEventEnvelope_MessageRoundTrip(t *testing.T) {
	env, err := NewEventEnvelope("order.completed", map[string]string{"id": "o1"})
	require.NoError(t, err)
	assert.Equal(t, EventSource, env.Source)
	assert.NotEmpty(t, env.EventID)

	msg, err := env.ToMessage("orders", "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", string(msg.Key))
	assert.Equal(t, "order.completed", msg.Headers["event_type"])

	back, err := MessageToEventEnvelope(&Message{Value: msg.Value})
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, back.DecodePayload(&payload))
	assert.Equal(t, "o1", payload["id"])
}

func TestMessageToEventEnvelope_Invalid(t *testing.T) {
	_, err := MessageToEventEnvelope(&Message{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))

	_, err = MessageToEventEnvelope(&Message{Value: []byte("{")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))

	assert.Error(t, (&EventEnvelope{}).DecodePayload(&struct{}{}))
}

func TestTopicManager_EnsureOrderTopics(t *testing.T) {
	conn := &mockKafkaConn{}
	m := &TopicManager{conn: conn, logger: logging.NewNopLogger()}

	require.NoError(t, m.EnsureTopics(context.Background(), OrderTopics("orderbot.order.completed", true)))
	require.Len(t, conn.created, 2)
	assert.Equal(t, "orderbot.order.completed", conn.created[0].Topic)
	assert.Equal(t, "orderbot.order.completed.dlq", conn.created[1].Topic)
	assert.Equal(t, "retention.ms", conn.created[0].ConfigEntries[0].ConfigName)

	assert.Len(t, OrderTopics("t", false), 1)
}

func TestTopicManager_CreateTopic(t *testing.T) {
	m := &TopicManager{conn: &mockKafkaConn{
		createErr:  errors.New("exists"),
		partitions: []kafka.Partition{{Topic: "t"}},
	}, logger: logging.NewNopLogger()}
	assert.NoError(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	m = &TopicManager{conn: &mockKafkaConn{createErr: errors.New("denied")}, logger: logging.NewNopLogger()}
	err := m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeMessagingError))

	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t"}))
}
