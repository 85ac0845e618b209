// Package events publishes order lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/edu-checkout/internal/model"
)

// Conn is the subset of *nats.Conn used by the publisher.
type Conn interface {
	PublishMsg(m *nats.Msg) error
}

// Publisher publishes order-created events.
type Publisher interface {
	OrderCreated(ctx context.Context, payload model.OrderPayload) error
}

// NATSPublisher publishes events as JSON messages on a single subject.
type NATSPublisher struct {
	conn    Conn
	subject string
}

// NewNATSPublisher creates a publisher over an existing connection.
func NewNATSPublisher(conn Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// Connect dials NATS with reconnect handling that logs through zerolog.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("edu-checkout"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	log.Info().Str("url", nc.ConnectedUrl()).Msg("nats connection established")
	return nc, nil
}

// OrderCreated publishes the order payload. The transaction id is sent as
// Nats-Msg-Id so JetStream streams can deduplicate retries.
func (p *NATSPublisher) OrderCreated(ctx context.Context, payload model.OrderPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, payload.TransactionID)
	msg.Header.Set("Content-Type", "application/json")

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

// Noop discards events. It is used when NATS_URL is empty.
type Noop struct{}

// OrderCreated implements Publisher.
func (Noop) OrderCreated(context.Context, model.OrderPayload) error { return nil }
