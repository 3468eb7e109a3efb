package recommend

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"github.com/keiji/reeldaily/internal/service/selection"
	"github.com/keiji/reeldaily/internal/util"
	"go.uber.org/zap"
)

const dayPickKeyPrefix = "rec:day:"

// Publisher mirrors the cross-surface publisher: a successful draw is
// handed over synchronously.
type Publisher interface {
	Publish(ctx context.Context, film *domain.Film) error
}

// Cache persists the day's pick keyed by calendar date so repeated calls
// within one day return the same film.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Engine draws today's film: one director uniformly at random from the
// chosen set, then one film uniformly at random from that director's list.
// No weighting, no exclusion of yesterday's pick, no seeding.
type Engine struct {
	selection *selection.Service
	publisher Publisher
	cache     Cache
	logger    *zap.Logger

	now  func() time.Time
	intn func(int) int
}

func NewEngine(sel *selection.Service, publisher Publisher, cache Cache, logger *zap.Logger) *Engine {
	return &Engine{
		selection: sel,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		intn:      rand.IntN,
	}
}

// PickToday returns the film for the current calendar date, drawing one only
// when none has been stored yet. A failed draw (empty chosen set, stale
// director id, empty film list) silently yields nil. A stored pick is only
// honored while directors are actually chosen; after a session where the
// selection could not be restored, the stale day pick stays ignored.
func (e *Engine) PickToday(ctx context.Context) *domain.Film {
	if e.selection.ChosenCount() == 0 {
		e.logger.Debug("No chosen directors, skipping day pick")
		return nil
	}

	key := e.dayKey()

	var stored domain.Film
	if err := e.cache.Get(ctx, key, &stored); err != nil {
		e.logger.Warn("Failed to read day pick, drawing fresh", zap.Error(err))
	} else if stored.Title != "" {
		e.selection.SetTodaysFilm(&stored)
		return &stored
	}

	return e.drawAndPublish(ctx, key)
}

// Reroll discards any stored pick for today and draws again, overwriting
// the published record.
func (e *Engine) Reroll(ctx context.Context) *domain.Film {
	return e.drawAndPublish(ctx, e.dayKey())
}

func (e *Engine) drawAndPublish(ctx context.Context, key string) *domain.Film {
	film := e.draw()
	if film == nil {
		return nil
	}

	e.selection.SetTodaysFilm(film)

	if err := e.cache.Set(ctx, key, film, constants.CacheTTL.DayPick); err != nil {
		e.logger.Warn("Failed to store day pick", zap.String("key", key), zap.Error(err))
	}

	if err := e.publisher.Publish(ctx, film); err != nil {
		e.logger.Warn("Failed to publish recommendation", zap.Error(err))
	}

	e.logger.Info("Today's film picked",
		zap.String("title", film.Title),
		zap.Int("year", film.ReleaseYear),
		zap.String("recommender", film.RecommendingDirector),
	)

	return film
}

func (e *Engine) draw() *domain.Film {
	ids := e.selection.Chosen()
	if len(ids) == 0 {
		e.logger.Debug("No chosen directors, skipping draw")
		return nil
	}

	directorID := ids[e.intn(len(ids))]
	director := e.selection.DirectorByID(directorID)
	if director == nil {
		e.logger.Debug("Chosen director no longer in catalog", zap.String("director_id", directorID))
		return nil
	}
	if !director.HasFilms() {
		e.logger.Debug("Chosen director has no recommended films", zap.String("director", director.Name))
		return nil
	}

	return director.RecommendedFilms[e.intn(len(director.RecommendedFilms))]
}

func (e *Engine) dayKey() string {
	return dayPickKeyPrefix + util.DayKey(e.now())
}
