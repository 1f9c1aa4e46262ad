package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/shopplan/internal/config"
)

// NATSNotifier publishes scheduling events to NATS JetStream.
type NATSNotifier struct {
	conn          *nats.Conn
	js            jetstream.JetStream
	subjectPrefix string
}

// NewNATSNotifier connects to NATS and ensures the notification stream
// exists.
func NewNATSNotifier(cfg config.NotifyConfig) (*NATSNotifier, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("notifications are disabled")
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	n := &NATSNotifier{
		conn:          conn,
		js:            js,
		subjectPrefix: cfg.SubjectPrefix,
	}

	if err := n.ensureStream(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure notification stream: %w", err)
	}

	slog.Info("NATS notifier initialized",
		"url", cfg.NATSURL,
		"subject_prefix", cfg.SubjectPrefix)

	return n, nil
}

func (n *NATSNotifier) ensureStream() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        "SHOPPLAN_NOTIFICATIONS",
		Description: "Shopping schedule notifications",
		Subjects:    []string{n.subjectPrefix + ".schedule.>"},
		MaxAge:      7 * 24 * time.Hour,
	})
	return err
}

// PublishScheduleGenerated publishes a schedule-generated event.
func (n *NATSNotifier) PublishScheduleGenerated(ctx context.Context, ev ScheduleGenerated) error {
	ev.Timestamp = time.Now()
	return n.publish(ctx, n.subjectPrefix+".schedule.generated", ev)
}

// PublishSuggestionApproved publishes a suggestion-approved event.
func (n *NATSNotifier) PublishSuggestionApproved(ctx context.Context, ev SuggestionApproved) error {
	ev.Timestamp = time.Now()
	return n.publish(ctx, n.subjectPrefix+".schedule.approved", ev)
}

func (n *NATSNotifier) publish(ctx context.Context, subject string, ev any) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := n.js.Publish(pubCtx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("Published notification", "subject", subject)
	return nil
}

// Close closes the NATS connection.
func (n *NATSNotifier) Close() error {
	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
