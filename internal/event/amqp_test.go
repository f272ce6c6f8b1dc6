package event

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestPublishing(t *testing.T) {
	msg := message.NewMessage("uuid-1", []byte(`{"event":"action_canceled","action_id":3}`))
	msg.Metadata.Set("source", "primary")

	p := publishing(msg)
	assert.Equal(t, "uuid-1", p.MessageId)
	assert.Equal(t, "application/json", p.ContentType)
	assert.Equal(t, amqp.Persistent, p.DeliveryMode)
	assert.Equal(t, "primary", p.Headers["source"])
	assert.JSONEq(t, `{"event":"action_canceled","action_id":3}`, string(p.Body))
	assert.False(t, p.Timestamp.IsZero())
}
