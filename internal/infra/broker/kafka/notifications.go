package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"
)

// NotificationListener consumes domain event envelopes and surfaces the ones
// users should hear about. Delivery channels (email, push) hang off this
// boundary; until one is configured the listener records the notification in
// the structured log.
type NotificationListener struct {
	Logger *slog.Logger
}

type eventEnvelope struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Source string          `json:"source"`
	Time   string          `json:"time"`
	Data   json.RawMessage `json:"data"`
}

func (l *NotificationListener) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var env eventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		if l.Logger != nil {
			l.Logger.Warn("notification payload not an event envelope",
				"topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
		return nil
	}
	if l.Logger != nil {
		l.Logger.Info("notification",
			"event", env.Type,
			"event_id", env.ID,
			"aggregate", string(msg.Key),
			"occurred_at", env.Time,
		)
	}
	return nil
}

var _ MessageHandler = (*NotificationListener)(nil)
