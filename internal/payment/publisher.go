package payment

import (
	"context"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/events"
	kafkax "github.com/ariefcatur/go-kasir/internal/kafka"
)

// KafkaPublisher sends TransactionCompleted envelopes.
type KafkaPublisher struct {
	Producer *kafkax.Producer
	Service  string
}

func (p *KafkaPublisher) TransactionCompleted(ctx context.Context, r domain.Receipt, cashier domain.User) error {
	env, err := kafkax.NewEnvelope(events.EventTransactionCompleted, p.Service, r.Code, traceID(ctx),
		events.TransactionCompletedPayload{Receipt: r, CashierID: cashier.ID, Cashier: cashier.Username})
	if err != nil {
		return err
	}
	return p.Producer.PublishEnvelope(env)
}

type traceKey struct{}

// WithTraceID carries the request id into published events.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func traceID(ctx context.Context) string {
	s, _ := ctx.Value(traceKey{}).(string)
	return s
}
