package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
)

// AMQPConfig configures AMQPPublisher.
type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

// publishChannel is the part of *amqp.Channel used by the publisher.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes change notifications and run reports as JSON
// messages on a direct exchange.
type AMQPPublisher struct {
	conn       *amqp.Connection
	channel    publishChannel
	exchange   string
	routingKey string
	log        *logger.Logger
	now        func() time.Time
}

// Message is the body of every published message.
type Message struct {
	Type      string            `json:"type"` // "changes" or "status"
	Contact   string            `json:"contact,omitempty"`
	Team      string            `json:"team,omitempty"`
	Fixtures  []fixture.Fixture `json:"fixtures,omitempty"`
	Status    *Status           `json:"status,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewAMQPPublisher connects to the broker and declares the exchange, queue
// and binding.
func NewAMQPPublisher(cfg AMQPConfig, log *logger.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if cfg.QueueName != "" {
		q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("declare queue: %w", err)
		}
		if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("bind queue: %w", err)
		}
	}

	log.Info("connected to rabbitmq", logger.Fields{
		"exchange":    cfg.Exchange,
		"queue":       cfg.QueueName,
		"routing_key": cfg.RoutingKey,
	})

	p := newAMQPPublisher(ch, cfg.Exchange, cfg.RoutingKey, log)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch publishChannel, exchange, routingKey string, log *logger.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		log:        log,
		now:        time.Now,
	}
}

// Notify implements Notifier.
func (p *AMQPPublisher) Notify(ctx context.Context, contact, team string, fixtures []fixture.Fixture) error {
	return p.publish(ctx, Message{
		Type:     "changes",
		Contact:  contact,
		Team:     team,
		Fixtures: fixtures,
	})
}

// ReportStatus implements StatusReporter.
func (p *AMQPPublisher) ReportStatus(ctx context.Context, status Status) error {
	return p.publish(ctx, Message{Type: "status", Status: &status})
}

func (p *AMQPPublisher) publish(ctx context.Context, msg Message) error {
	msg.Timestamp = p.now().UTC()

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    msg.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.log.Debug("published message", logger.Fields{"type": msg.Type, "team": msg.Team})
	return nil
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
