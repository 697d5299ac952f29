package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	publishTimeout = 5 * time.Second
	redialInterval = 5 * time.Second
	closeTimeout   = 10 * time.Second

	// defaultQueueSize is the number of events held while the broker is slow or away
	defaultQueueSize = 1024
)

var errNotConnected = errors.New("amqp publisher is not connected")

// channel is the subset of *amqp.Channel used for publishing
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// session is one broker connection with its publishing channel
type session struct {
	ch     channel
	conn   io.Closer
	closed <-chan *amqp.Error
}

func (s *session) close() {
	s.ch.Close()
	if s.conn != nil {
		s.conn.Close()
	}
}

type dialer func() (*session, error)

// Message is the body published for every event
type Message struct {
	UserID    uuid.UUID            `json:"userId"`
	Type      string               `json:"type"`
	Entity    websocket.EntityType `json:"entity"`
	Payload   interface{}          `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type outbound struct {
	userID    uuid.UUID
	eventType string
	timestamp time.Time
	body      []byte
}

// AMQPPublisher forwards events to a RabbitMQ topic exchange, routed by event type.
// Publish only enqueues; a single worker owns the broker session and redials it
// after the connection drops.
type AMQPPublisher struct {
	exchange string
	dial     dialer
	logger   zerolog.Logger

	// owned by the worker goroutine
	sess     *session
	nextDial time.Time

	queue  chan outbound
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

var _ websocket.EventPublisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher dials the broker and declares the durable topic exchange
func NewAMQPPublisher(url, exchange string, logger zerolog.Logger) (*AMQPPublisher, error) {
	dial := dialBroker(url, exchange)
	sess, err := dial()
	if err != nil {
		return nil, err
	}
	return newPublisher(sess, dial, exchange, defaultQueueSize, logger), nil
}

func dialBroker(url, exchange string) dialer {
	return func() (*session, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, fmt.Errorf("dial amqp: %w", err)
		}

		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("open channel: %w", err)
		}

		err = ch.ExchangeDeclare(
			exchange, // name
			"topic",  // type
			true,     // durable
			false,    // auto-deleted
			false,    // internal
			false,    // no-wait
			nil,      // arguments
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
		}

		return &session{
			ch:     ch,
			conn:   conn,
			closed: conn.NotifyClose(make(chan *amqp.Error, 1)),
		}, nil
	}
}

func newPublisher(sess *session, dial dialer, exchange string, queueSize int, logger zerolog.Logger) *AMQPPublisher {
	p := &AMQPPublisher{
		exchange: exchange,
		dial:     dial,
		logger:   logger.With().Str("component", "amqp_publisher").Logger(),
		sess:     sess,
		queue:    make(chan outbound, queueSize),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish implements websocket.EventPublisher. It never blocks: events are
// dropped with a warning when the queue is full or the publisher is closed.
func (p *AMQPPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	body, err := json.Marshal(Message{
		UserID:    userID,
		Type:      event.Type,
		Entity:    event.Entity,
		Payload:   event.Payload,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", event.Type).Msg("Failed to encode event")
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	select {
	case p.queue <- outbound{userID: userID, eventType: event.Type, timestamp: event.Timestamp, body: body}:
	default:
		p.logger.Warn().
			Str("user_id", userID.String()).
			Str("event_type", event.Type).
			Msg("Publish queue full, dropping event")
	}
}

func (p *AMQPPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		p.deliver(msg)
	}
}

// deliver publishes one event, redialing once when the current session fails
func (p *AMQPPublisher) deliver(msg outbound) {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var ch channel
		if ch, err = p.channel(); err != nil {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err = ch.PublishWithContext(
			ctx,
			p.exchange,    // exchange
			msg.eventType, // routing key
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    msg.timestamp,
				MessageId:    uuid.NewString(),
				Body:         msg.body,
			},
		)
		cancel()
		if err == nil {
			p.logger.Debug().
				Str("user_id", msg.userID.String()).
				Str("event_type", msg.eventType).
				Msg("Published event")
			return
		}
		p.reset()
	}

	p.logger.Warn().
		Err(err).
		Str("user_id", msg.userID.String()).
		Str("event_type", msg.eventType).
		Msg("Failed to publish event")
}

// channel returns the live publishing channel, redialing a dropped session
// at most once per redialInterval
func (p *AMQPPublisher) channel() (channel, error) {
	if p.sess != nil {
		select {
		case amqpErr := <-p.sess.closed:
			p.logger.Warn().Interface("reason", amqpErr).Msg("Broker connection closed")
			p.reset()
		default:
			return p.sess.ch, nil
		}
	}

	if p.dial == nil || time.Now().Before(p.nextDial) {
		return nil, errNotConnected
	}
	sess, err := p.dial()
	if err != nil {
		p.nextDial = time.Now().Add(redialInterval)
		return nil, err
	}
	p.nextDial = time.Time{}
	p.sess = sess
	p.logger.Info().Msg("Reconnected to broker")
	return sess.ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.sess != nil {
		p.sess.close()
		p.sess = nil
	}
}

// Close flushes queued events and shuts down the broker session
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-time.After(closeTimeout):
		return errors.New("amqp publisher: timed out flushing events")
	}

	p.reset()
	return nil
}
