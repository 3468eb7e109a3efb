package publish

import (
	"context"

	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"go.uber.org/zap"
)

// Reader is the pull side of the shared slot, used by the widget process.
// It never fails: missing or unreadable fields fall back to the literal
// pre-publish defaults.
type Reader struct {
	slot   Slot
	logger *zap.Logger
}

func NewReader(slot Slot, logger *zap.Logger) *Reader {
	return &Reader{
		slot:   slot,
		logger: logger,
	}
}

func (r *Reader) Read(ctx context.Context) *domain.RecommendationRecord {
	fields, err := r.slot.HGetAll(ctx, constants.Slot.HashKey)
	if err != nil {
		r.logger.Warn("Shared slot read failed, using fallback record", zap.Error(err))
		return domain.FallbackRecord()
	}
	return domain.RecordFromFields(fields)
}
