// Package receipts keeps a durable copy of every completed sale.
package receipts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-kasir/internal/events"
	kafkax "github.com/ariefcatur/go-kasir/internal/kafka"
	"github.com/ariefcatur/go-kasir/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Store interface {
	Save(ctx context.Context, s Stored) (existed bool, err error)
}

type Service struct {
	Repo  Store
	Redis *redis.Client
	Log   *zap.Logger
	Group string // namespace dedup key
}

// HandleTransactionCompleted is installed as the consumer handler.
func (s *Service) HandleTransactionCompleted(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// pesan rusak tidak akan pernah sukses, commit saja
		s.log().Warn("drop malformed message", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}
	if env.EventType != events.EventTransactionCompleted {
		return nil
	}

	// dedup via Redis (event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.Group, env.EventID)
	claimed, err := redisx.Claim(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	p, err := kafkax.UnwrapPayload[events.TransactionCompletedPayload](env.Payload)
	if err != nil {
		s.log().Warn("drop bad payload", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}

	existed, err := s.Repo.Save(ctx, Stored{
		Receipt:   p.Receipt,
		EventID:   env.EventID,
		CashierID: p.CashierID,
		Cashier:   p.Cashier,
	})
	if err != nil {
		// lepas klaim supaya redelivery bisa diproses ulang
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	s.log().Info("receipt stored",
		zap.String("trx_code", p.Receipt.Code),
		zap.String("event_id", env.EventID),
		zap.Bool("existed", existed),
	)
	return nil
}

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
