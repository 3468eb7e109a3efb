package selection

import (
	"context"
	"sort"
	"sync"

	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"github.com/keiji/reeldaily/internal/service/catalog"
	"go.uber.org/zap"
)

// Service is the single-writer selection state: the loaded catalog, the
// user's chosen directors and today's film. One instance per process; only
// this process mutates it.
type Service struct {
	store  catalog.Store
	logger *zap.Logger
	userID string

	mu         sync.RWMutex
	directors  []*domain.Director
	byID       map[string]*domain.Director
	chosen     map[string]struct{}
	completed  bool
	todaysFilm *domain.Film

	onComplete []func(context.Context)
}

func NewService(store catalog.Store, userID string, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		userID: userID,
		byID:   map[string]*domain.Director{},
		chosen: map[string]struct{}{},
	}
}

// OnComplete registers a hook invoked after onboarding completes. Hooks run
// synchronously in registration order.
func (s *Service) OnComplete(fn func(context.Context)) {
	s.onComplete = append(s.onComplete, fn)
}

// LoadCatalog fetches all director records and replaces the catalog
// wholesale. On failure the previous catalog is left untouched and the
// error is logged only; there is no retry.
func (s *Service) LoadCatalog(ctx context.Context) error {
	directors, err := s.store.FetchDirectors(ctx)
	if err != nil {
		s.logger.Error("Catalog fetch failed, keeping previous catalog", zap.Error(err))
		return err
	}

	byID := make(map[string]*domain.Director, len(directors))
	for _, d := range directors {
		byID[d.ID] = d
	}

	s.mu.Lock()
	s.directors = directors
	s.byID = byID
	s.mu.Unlock()

	s.logger.Info("Catalog loaded", zap.Int("directors", len(directors)))
	return nil
}

// RestoreSelection reads the persisted per-user selection back. The chosen
// set and the completed flag are restored only when the document holds
// exactly five ids that all resolve against the loaded catalog.
func (s *Service) RestoreSelection(ctx context.Context) {
	ids, err := s.store.LoadSelection(ctx, s.userID)
	if err != nil {
		s.logger.Warn("Failed to load persisted selection", zap.Error(err))
		return
	}
	if len(ids) != constants.Selection.RequiredDirectors {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.byID[id]; !ok {
			s.logger.Warn("Persisted selection references unknown director, skipping restore",
				zap.String("director_id", id))
			return
		}
	}

	s.chosen = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.chosen[id] = struct{}{}
	}
	s.completed = true

	s.logger.Info("Selection restored", zap.Int("directors", len(ids)))
}

// Toggle flips a director in or out of the chosen set. Removing is always
// allowed; adding is silently capped at five. Unknown ids and toggles after
// onboarding completion are no-ops.
func (s *Service) Toggle(directorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return false
	}

	if _, ok := s.chosen[directorID]; ok {
		delete(s.chosen, directorID)
		return true
	}

	if _, ok := s.byID[directorID]; !ok {
		return false
	}
	if len(s.chosen) >= constants.Selection.RequiredDirectors {
		return false
	}

	s.chosen[directorID] = struct{}{}
	return true
}

// CompleteOnboarding finishes the selection flow. It is a no-op unless
// exactly five directors are chosen. On success the chosen set is persisted
// fire-and-forget and the registered hooks (today's pick, notification
// registration) run synchronously.
func (s *Service) CompleteOnboarding(ctx context.Context) bool {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return true
	}
	if len(s.chosen) != constants.Selection.RequiredDirectors {
		s.mu.Unlock()
		return false
	}
	s.completed = true
	ids := s.chosenLocked()
	s.mu.Unlock()

	s.logger.Info("Onboarding completed", zap.Strings("directors", ids))

	// Fire-and-forget: no acknowledgment awaited, failure is log-only.
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), constants.CatalogConfig.WriteTimeout)
		defer cancel()
		if err := s.store.SaveSelection(writeCtx, s.userID, ids); err != nil {
			s.logger.Warn("Failed to persist selection", zap.Error(err))
		}
	}()

	for _, fn := range s.onComplete {
		fn(ctx)
	}

	return true
}

func (s *Service) Chosen() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chosenLocked()
}

func (s *Service) chosenLocked() []string {
	ids := make([]string, 0, len(s.chosen))
	for id := range s.chosen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Service) ChosenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chosen)
}

func (s *Service) IsChosen(directorID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chosen[directorID]
	return ok
}

func (s *Service) Completed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed
}

func (s *Service) Directors() []*domain.Director {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Director, len(s.directors))
	copy(out, s.directors)
	return out
}

func (s *Service) DirectorByID(directorID string) *domain.Director {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[directorID]
}

func (s *Service) SetTodaysFilm(f *domain.Film) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todaysFilm = f
}

func (s *Service) TodaysFilm() *domain.Film {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.todaysFilm
}
