package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docconf/internal/config"
)

// ValidationEvent is published after every completed validation run.
type ValidationEvent struct {
	RunID     string    `json:"run_id"`
	Repo      string    `json:"repo"`
	Outcome   string    `json:"outcome"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers validation events. A nil *NATSPublisher is a valid
// no-op publisher so callers can inject it unconditionally.
type Publisher interface {
	Publish(event ValidationEvent) error
	Close()
}

// NATSPublisher publishes validation events to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to NATS per the daemon configuration. Returns
// (nil, nil) when no NATS URL is configured: event publication is optional.
func NewNATSPublisher(cfg config.NATSConfig) (*NATSPublisher, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	conn, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized", "url", cfg.URL, "subject", cfg.Subject)
	return &NATSPublisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends the event as JSON. Publication failures are reported to
// the caller but should not fail the validation run itself.
func (p *NATSPublisher) Publish(event ValidationEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal validation event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish validation event: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
