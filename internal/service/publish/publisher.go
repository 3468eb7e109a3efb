package publish

import (
	"context"
	"encoding/json"

	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"go.uber.org/zap"
)

// Slot is the shared key-value area both processes agree on: one hash of
// five scalar fields plus an advisory reload channel.
type Slot interface {
	HMSet(ctx context.Context, key string, fields map[string]any) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Publish(ctx context.Context, channel, payload string) error
}

// Publisher copies today's pick into the shared slot. Overwrite semantics,
// single record, no history.
type Publisher struct {
	slot   Slot
	logger *zap.Logger
}

func NewPublisher(slot Slot, logger *zap.Logger) *Publisher {
	return &Publisher{
		slot:   slot,
		logger: logger,
	}
}

// Publish writes the five scalar fields of the film, then nudges widget
// hosts that their cached content is stale. The nudge is advisory: its
// failure never fails the publish.
func (p *Publisher) Publish(ctx context.Context, film *domain.Film) error {
	record := domain.RecordFromFilm(film)

	if err := p.slot.HMSet(ctx, constants.Slot.HashKey, record.Fields()); err != nil {
		return err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		p.logger.Warn("Failed to encode reload payload", zap.Error(err))
		return nil
	}
	if err := p.slot.Publish(ctx, constants.Channels.WidgetReload, string(payload)); err != nil {
		p.logger.Warn("Widget reload signal failed", zap.Error(err))
	}

	p.logger.Info("Recommendation published",
		zap.String("title", record.Title),
		zap.Int("year", record.Year),
	)

	return nil
}
