// Package notify announces finished renders to other systems.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
	"git.home.luguber.info/inful/sassdoc-theme/internal/retry"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "sassdoc.render.completed"

// RenderEvent is the message published after each render.
type RenderEvent struct {
	BuildID    string    `json:"build_id"`
	Theme      string    `json:"theme"`
	Dest       string    `json:"dest"`
	Outcome    string    `json:"outcome"`
	Entities   int       `json:"entities"`
	Files      int       `json:"files"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notifier publishes render events.
type Notifier interface {
	Notify(ctx context.Context, ev RenderEvent) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) Notify(context.Context, RenderEvent) error { return nil }
func (Noop) Close() error                              { return nil }

type publisher interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSNotifier publishes events on a core NATS subject.
type NATSNotifier struct {
	conn    publisher
	subject string
	flush   time.Duration
	policy  retry.Policy
}

// NewNATSNotifier connects to url.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url,
		nats.Name("sassdoc-theme"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "connect to NATS").
			Retryable().
			WithContext("url", url).
			Build()
	}
	slog.Info("NATS notifier connected", slog.String("url", url), slog.String("subject", subjectOrDefault(subject)))
	return newNATSNotifier(conn, subject), nil
}

func newNATSNotifier(conn publisher, subject string) *NATSNotifier {
	return &NATSNotifier{
		conn:    conn,
		subject: subjectOrDefault(subject),
		flush:   2 * time.Second,
		policy:  retry.NewPolicy(retry.Exponential, 100*time.Millisecond, time.Second, 2),
	}
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return DefaultSubject
	}
	return subject
}

// Notify publishes ev and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, ev RenderEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "marshal render event").Build()
	}
	err = retry.Do(ctx, n.policy, func(attempt int) error {
		if attempt > 0 {
			slog.Debug("Retrying render event publish", slog.Int("attempt", attempt), slog.String("subject", n.subject))
		}
		return n.publish(ctx, data)
	})
	if err != nil {
		return err
	}
	slog.Debug("Published render event", slog.String("subject", n.subject), slog.String("build_id", ev.BuildID))
	return nil
}

func (n *NATSNotifier) publish(ctx context.Context, data []byte) error {
	if err := n.conn.Publish(n.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "publish render event").
			Retryable().
			WithContext("subject", n.subject).
			Build()
	}

	timeout := n.flush
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if err := n.conn.FlushTimeout(timeout); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "flush render event").
			Retryable().
			WithContext("subject", n.subject).
			Build()
	}
	return nil
}

// Close drops the connection.
func (n *NATSNotifier) Close() error {
	n.conn.Close()
	return nil
}
