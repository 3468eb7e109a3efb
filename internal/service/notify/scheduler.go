package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"github.com/keiji/reeldaily/internal/util"
	"go.uber.org/zap"
)

// PermissionFunc answers the alert-permission prompt. It may block until
// the user responds; no timeout is enforced on the outcome.
type PermissionFunc func(ctx context.Context) (bool, error)

// Deliverer carries a composed alert body to whatever surface shows it.
type Deliverer interface {
	Deliver(ctx context.Context, body string) error
}

// PickFunc produces the film the alert should describe, nil when no pick
// is available.
type PickFunc func(ctx context.Context) *domain.Film

// Scheduler keeps exactly one recurring daily trigger per identifier.
// Re-registering under the same identifier replaces the previous trigger
// instead of accumulating duplicates.
type Scheduler struct {
	logger     *zap.Logger
	permission PermissionFunc
	deliverer  Deliverer
	pick       PickFunc
	now        func() time.Time

	mu       sync.Mutex
	triggers map[string]*trigger
}

type trigger struct {
	identifier string
	stop       chan struct{}
}

func NewScheduler(permission PermissionFunc, deliverer Deliverer, pick PickFunc, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger:     logger,
		permission: permission,
		deliverer:  deliverer,
		pick:       pick,
		now:        time.Now,
		triggers:   map[string]*trigger{},
	}
}

// Register asks for alert permission and, when granted, installs the single
// daily midnight trigger. Denial is log-only: the pick stays visible in-app
// and in the widget, only the reminder is skipped.
func (s *Scheduler) Register(ctx context.Context) error {
	granted, err := s.permission(ctx)
	if err != nil {
		s.logger.Warn("Alert permission request failed", zap.Error(err))
		return err
	}
	if !granted {
		s.logger.Info("Alert permission denied, skipping daily reminder")
		return nil
	}

	s.registerTrigger(constants.Notification.Identifier)
	return nil
}

func (s *Scheduler) registerTrigger(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.triggers[identifier]; ok {
		close(existing.stop)
	}

	t := &trigger{
		identifier: identifier,
		stop:       make(chan struct{}),
	}
	s.triggers[identifier] = t

	go s.run(t)

	s.logger.Info("Daily trigger registered", zap.String("identifier", identifier))
}

func (s *Scheduler) run(t *trigger) {
	for {
		timer := time.NewTimer(time.Until(util.NextMidnight(s.now())))
		select {
		case <-t.stop:
			timer.Stop()
			return
		case <-timer.C:
			s.fire()
		}
	}
}

func (s *Scheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	film := s.pick(ctx)
	body := ComposeBody(film)

	if err := s.deliverer.Deliver(ctx, body); err != nil {
		s.logger.Warn("Failed to deliver daily alert", zap.Error(err))
		return
	}

	s.logger.Info("Daily alert delivered", zap.String("body", body))
}

// ActiveTriggers reports how many triggers are currently installed.
func (s *Scheduler) ActiveTriggers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

func (s *Scheduler) HasTrigger(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.triggers[identifier]
	return ok
}

// Stop tears down all triggers; used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.triggers {
		close(t.stop)
		delete(s.triggers, id)
	}
}

// ComposeBody formats the alert text: film details when a pick exists, a
// generic reminder otherwise.
func ComposeBody(film *domain.Film) string {
	if film == nil {
		return "Your daily director pick is ready. Open the app to see it."
	}

	title := util.TruncateString(film.Title, constants.StringLimits.NotificationTitle)
	return fmt.Sprintf("Today's pick: %s (%d), directed by %s. Recommended by %s.",
		title, film.ReleaseYear, film.OriginalDirector, film.RecommendingDirector)
}
