package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/umojafin/lms/internal/domain/event"
	pkgkafka "github.com/umojafin/lms/pkg/kafka"
)

const (
	loanTopic      = "lms.loans"
	portfolioTopic = "lms.portfolio"
)

// EventPublisher publishes domain events to Kafka. Events are keyed by
// aggregate ID so all events of one loan land on the same partition in
// order.
type EventPublisher struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(producer *pkgkafka.Producer, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, logger: logger}
}

// Publish serializes and sends the given events.
func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		msg := pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_id":   evt.EventID(),
				"event_type": evt.EventType(),
				"tenant_id":  evt.TenantID(),
			},
		}

		if err := p.producer.Publish(ctx, topicFor(evt), msg); err != nil {
			return fmt.Errorf("publish event %s: %w", evt.EventType(), err)
		}

		p.logger.Debug("event published",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
		)
	}
	return nil
}

func topicFor(evt event.DomainEvent) string {
	if evt.AggregateType() == "PortfolioSnapshot" {
		return portfolioTopic
	}
	return loanTopic
}
