package event

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/json"
	"github.com/crochee/actionstore/pkg/logger"
	"github.com/crochee/actionstore/pkg/routine"
)

// Topics every notification is published on
var Topics = []store.Event{store.EventStored, store.EventCanceled, store.EventDeleted}

// Payload is the body of a notification
type Payload struct {
	Event    store.Event `json:"event"`
	ActionID int64       `json:"action_id"`
	At       time.Time   `json:"at"`
}

// DefaultBuffer is how many notifications may wait for the broker
const DefaultBuffer = 1024

type option struct {
	buffer int
}

type Option func(*option)

// WithBuffer sets the queue length, a full queue drops new notifications
func WithBuffer(n int) Option {
	return func(o *option) {
		if n > 0 {
			o.buffer = n
		}
	}
}

type notification struct {
	log   *zap.Logger
	event store.Event
	msg   *message.Message
}

// Publisher sends store notifications as watermill messages, one topic per
// event. Notify only queues the message, a single worker does the publishing
// so messages keep their order.
type Publisher struct {
	pub   message.Publisher
	now   func() time.Time
	queue chan notification
	pool  *routine.Pool

	mu     sync.RWMutex
	closed bool
}

func NewPublisher(pub message.Publisher, opts ...Option) *Publisher {
	o := option{buffer: DefaultBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	p := &Publisher{
		pub:   pub,
		now:   func() time.Time { return time.Now().UTC() },
		queue: make(chan notification, o.buffer),
		pool:  routine.NewPool(context.Background()),
	}
	p.pool.Go(p.run)
	return p
}

// Notify never blocks and never fails the caller. Publish errors are logged
// by the worker, a full queue or a closed publisher drops the notification.
func (p *Publisher) Notify(ctx context.Context, event store.Event, actionID int64) {
	log := logger.From(ctx).With(zap.String("event", string(event)), zap.Int64("action_id", actionID))
	data, err := json.Marshal(&Payload{Event: event, ActionID: actionID, At: p.now()})
	if err != nil {
		log.Warn("encode notification", zap.Error(err))
		return
	}
	n := notification{log: log, event: event, msg: message.NewMessage(watermill.NewUUID(), data)}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		log.Warn("publisher closed, notification dropped")
		return
	}
	select {
	case p.queue <- n:
	default:
		log.Warn("notification queue full, notification dropped")
	}
}

func (p *Publisher) run(context.Context) {
	for n := range p.queue {
		if err := p.pub.Publish(string(n.event), n.msg); err != nil {
			n.log.Warn("publish notification", zap.Error(err))
		}
	}
}

// Close publishes what is already queued, then closes the underlying publisher
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.pool.Wait()
	return p.pub.Close()
}

// NewGoChannel is the in-process pub/sub used when no broker is configured.
// Publish does not wait for subscribers.
func NewGoChannel(l *zap.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, NewLoggerAdapter(l))
}

// Decode parses a notification message
func Decode(msg *message.Message) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return nil, errors.WithStack(code.ErrParseContent.WithResult(err.Error()))
	}
	return &p, nil
}

// Log subscribes to every topic and logs what arrives. The returned pool
// drains once the subscriber is closed.
func Log(ctx context.Context, sub message.Subscriber) (*routine.Pool, error) {
	pool := routine.NewPool(ctx)
	for _, topic := range Topics {
		messages, err := sub.Subscribe(ctx, string(topic))
		if err != nil {
			return pool, err
		}
		pool.Go(func(ctx context.Context) {
			for msg := range messages {
				if p, err := Decode(msg); err == nil {
					logger.From(ctx).Debug("action event",
						zap.String("event", string(p.Event)),
						zap.Int64("action_id", p.ActionID))
				} else {
					logger.From(ctx).Warn("undecodable action event", zap.String("uuid", msg.UUID), zap.Error(err))
				}
				msg.Ack()
			}
		})
	}
	return pool, nil
}
