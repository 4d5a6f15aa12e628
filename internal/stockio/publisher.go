package stockio

import (
	"context"

	"github.com/ariefcatur/go-kasir/internal/events"
	kafkax "github.com/ariefcatur/go-kasir/internal/kafka"
	"github.com/google/uuid"
)

type KafkaPublisher struct {
	Producer *kafkax.Producer
	Service  string
}

func (p *KafkaPublisher) ProductsImported(ctx context.Context, payload events.ProductsImportedPayload) error {
	env, err := kafkax.NewEnvelope(events.EventProductsImported, p.Service, uuid.NewString(), "", payload)
	if err != nil {
		return err
	}
	return p.Producer.PublishEnvelope(env)
}
