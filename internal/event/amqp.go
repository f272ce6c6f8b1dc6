package event

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/multierr"
)

// AMQPPublisher publishes notifications to a topic exchange, the event
// name is the routing key.
type AMQPPublisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	timeout  time.Duration
}

// DialAMQP connects to url and declares exchange as a durable topic exchange
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.WithStack(err)
	}
	if err = channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, errors.WithStack(multierr.Append(err, conn.Close()))
	}
	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		timeout:  5 * time.Second,
	}, nil
}

// Publish implements message.Publisher. amqp channels are not safe for
// concurrent use, publishes are serialised.
func (p *AMQPPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, msg := range messages {
		ctx, cancel := context.WithTimeout(msg.Context(), p.timeout)
		err := p.channel.PublishWithContext(ctx, p.exchange, topic, false, false, publishing(msg))
		cancel()
		if err != nil {
			return errors.Wrapf(err, "publish %s to %s", msg.UUID, topic)
		}
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return multierr.Append(p.channel.Close(), p.conn.Close())
}

func publishing(msg *message.Message) amqp.Publishing {
	headers := make(amqp.Table, len(msg.Metadata))
	for k, v := range msg.Metadata {
		headers[k] = v
	}
	return amqp.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.UUID,
		Timestamp:    time.Now().UTC(),
		Body:         msg.Payload,
	}
}
