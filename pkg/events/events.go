// Package events carries the "rides changed" refresh signal between the
// posting flow and listing viewers, locally or across instances over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/liftmate/liftmate/pkg/logger"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// TypeRidesChanged is the only event type the site emits
const TypeRidesChanged = "rides.changed"

// Event is the payload published when the rides table changes
type Event struct {
	Type      string    `json:"type"`
	RideID    string    `json:"ride_id,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	EmittedAt time.Time `json:"emitted_at"`
}

// RidesChanged builds the refresh event for a newly inserted ride
func RidesChanged(rideID string) Event {
	return Event{Type: TypeRidesChanged, RideID: rideID, EmittedAt: time.Now().UTC()}
}

// Sink receives delivered events, typically the websocket hub
type Sink func(Event)

// Publisher emits refresh signals
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// LocalPublisher delivers events to the in-process sink only
type LocalPublisher struct {
	sink Sink
}

// NewLocalPublisher creates a publisher for single instance deployments
func NewLocalPublisher(sink Sink) *LocalPublisher {
	return &LocalPublisher{sink: sink}
}

// Publish delivers evt to the sink
func (p *LocalPublisher) Publish(_ context.Context, evt Event) error {
	if p.sink != nil {
		p.sink(evt)
	}
	return nil
}

// Close is a no-op
func (p *LocalPublisher) Close() error { return nil }

type natsConn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
	Drain() error
}

// NATSPublisher publishes on a subject every instance subscribes to, so each
// instance refreshes its own viewers. The local sink is used directly when
// NATS rejects a publish.
type NATSPublisher struct {
	conn    natsConn
	subject string
	origin  string
	sink    Sink
	sub     *nats.Subscription
}

// ConnectNATS dials url and subscribes sink to subject
func ConnectNATS(url, subject, origin string, sink Sink) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("liftmate-"+origin),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	p, err := newNATSPublisher(nc, subject, origin, sink)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return p, nil
}

func newNATSPublisher(conn natsConn, subject, origin string, sink Sink) (*NATSPublisher, error) {
	p := &NATSPublisher{conn: conn, subject: subject, origin: origin, sink: sink}

	sub, err := conn.Subscribe(subject, p.deliver)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	p.sub = sub
	return p, nil
}

func (p *NATSPublisher) deliver(msg *nats.Msg) {
	var evt Event
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		logger.Warn("dropping malformed refresh event", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	if p.sink != nil {
		p.sink(evt)
	}
}

// Publish sends evt to every instance
func (p *NATSPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.Origin == "" {
		evt.Origin = p.origin
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		logger.WithContext(ctx).Warn("nats publish failed, refreshing local viewers only", zap.Error(err))
		if p.sink != nil {
			p.sink(evt)
		}
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// Close drains the subscription and the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
