package selection

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/keiji/reeldaily/internal/domain"
	"go.uber.org/zap"
)

type fakeStore struct {
	directors []*domain.Director
	fetchErr  error
	selection []string
	loadErr   error
	saved     chan []string
}

func newFakeStore(directors []*domain.Director) *fakeStore {
	return &fakeStore{
		directors: directors,
		saved:     make(chan []string, 1),
	}
}

func (f *fakeStore) FetchDirectors(_ context.Context) ([]*domain.Director, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.directors, nil
}

func (f *fakeStore) SaveSelection(_ context.Context, _ string, directorIDs []string) error {
	f.saved <- directorIDs
	return nil
}

func (f *fakeStore) LoadSelection(_ context.Context, _ string) ([]string, error) {
	return f.selection, f.loadErr
}

func testDirectors(n int) []*domain.Director {
	directors := make([]*domain.Director, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("director-%d", i)
		directors = append(directors, &domain.Director{
			ID:   id,
			Name: fmt.Sprintf("Director %d", i),
			RecommendedFilms: []*domain.Film{
				domain.NewFilm("Film", 2000+i, "Someone", fmt.Sprintf("Director %d", i), "https://letterboxd.com/film/x/"),
			},
		})
	}
	return directors
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	svc := NewService(store, "user-1", zap.NewNop())
	if err := svc.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	return svc
}

func TestToggleNeverGrowsBeyondFive(t *testing.T) {
	svc := newTestService(t, newFakeStore(testDirectors(8)))

	for i := 0; i < 8; i++ {
		svc.Toggle(fmt.Sprintf("director-%d", i))
	}

	if got := svc.ChosenCount(); got != 5 {
		t.Fatalf("expected chosen count 5, got %d", got)
	}
	if svc.Toggle("director-7") {
		t.Fatal("expected sixth add to be a silent no-op")
	}
}

func TestToggleRemoveAlwaysAllowed(t *testing.T) {
	svc := newTestService(t, newFakeStore(testDirectors(6)))

	for i := 0; i < 5; i++ {
		svc.Toggle(fmt.Sprintf("director-%d", i))
	}

	if !svc.Toggle("director-2") {
		t.Fatal("expected removal of a chosen director to succeed")
	}
	if got := svc.ChosenCount(); got != 4 {
		t.Fatalf("expected chosen count 4 after removal, got %d", got)
	}
	if svc.IsChosen("director-2") {
		t.Fatal("director-2 should no longer be chosen")
	}
}

func TestToggleUnknownDirectorIsNoOp(t *testing.T) {
	svc := NewService(newFakeStore(nil), "user-1", zap.NewNop())

	// Catalog never loaded: toggling against an empty catalog is legal
	// and has no visible effect.
	if svc.Toggle("director-0") {
		t.Fatal("expected toggle against empty catalog to be a no-op")
	}
	if got := svc.ChosenCount(); got != 0 {
		t.Fatalf("expected empty chosen set, got %d", got)
	}
}

func TestCompleteOnboardingRequiresExactlyFive(t *testing.T) {
	store := newFakeStore(testDirectors(6))
	svc := newTestService(t, store)

	hookCalls := 0
	svc.OnComplete(func(context.Context) { hookCalls++ })

	for i := 0; i < 4; i++ {
		svc.Toggle(fmt.Sprintf("director-%d", i))
	}

	if svc.CompleteOnboarding(context.Background()) {
		t.Fatal("expected completion with four directors to be a no-op")
	}
	if svc.Completed() {
		t.Fatal("completed flag must not be set")
	}
	if hookCalls != 0 {
		t.Fatalf("hooks must not run, got %d calls", hookCalls)
	}

	svc.Toggle("director-4")

	if !svc.CompleteOnboarding(context.Background()) {
		t.Fatal("expected completion with five directors to succeed")
	}
	if !svc.Completed() {
		t.Fatal("completed flag should be set")
	}
	if hookCalls != 1 {
		t.Fatalf("expected one hook call, got %d", hookCalls)
	}

	select {
	case ids := <-store.saved:
		if len(ids) != 5 {
			t.Fatalf("expected five persisted ids, got %d", len(ids))
		}
	case <-time.After(time.Second):
		t.Fatal("selection was never persisted")
	}
}

func TestCompleteOnboardingIsMonotonic(t *testing.T) {
	store := newFakeStore(testDirectors(5))
	svc := newTestService(t, store)

	hookCalls := 0
	svc.OnComplete(func(context.Context) { hookCalls++ })

	for i := 0; i < 5; i++ {
		svc.Toggle(fmt.Sprintf("director-%d", i))
	}

	svc.CompleteOnboarding(context.Background())
	if !svc.CompleteOnboarding(context.Background()) {
		t.Fatal("repeated completion should still report completed")
	}
	if hookCalls != 1 {
		t.Fatalf("hooks must run once, got %d calls", hookCalls)
	}

	// Chosen set is frozen after completion.
	if svc.Toggle("director-0") {
		t.Fatal("toggle after completion must be a no-op")
	}
	if got := svc.ChosenCount(); got != 5 {
		t.Fatalf("expected chosen count to stay 5, got %d", got)
	}
}

func TestLoadCatalogFailureKeepsPreviousCatalog(t *testing.T) {
	store := newFakeStore(testDirectors(3))
	svc := newTestService(t, store)

	store.fetchErr = fmt.Errorf("network down")
	if err := svc.LoadCatalog(context.Background()); err == nil {
		t.Fatal("expected fetch error to surface")
	}

	if got := len(svc.Directors()); got != 3 {
		t.Fatalf("expected previous catalog to survive, got %d directors", got)
	}
}

func TestRestoreSelectionWithFiveKnownIDs(t *testing.T) {
	store := newFakeStore(testDirectors(6))
	store.selection = []string{"director-0", "director-1", "director-2", "director-3", "director-4"}
	svc := newTestService(t, store)

	svc.RestoreSelection(context.Background())

	if !svc.Completed() {
		t.Fatal("expected restored session to be completed")
	}
	if got := svc.ChosenCount(); got != 5 {
		t.Fatalf("expected five restored directors, got %d", got)
	}
}

func TestRestoreSelectionSkipsUnknownOrPartialSets(t *testing.T) {
	store := newFakeStore(testDirectors(6))
	store.selection = []string{"director-0", "director-1", "director-2", "director-3", "gone"}
	svc := newTestService(t, store)

	svc.RestoreSelection(context.Background())
	if svc.Completed() || svc.ChosenCount() != 0 {
		t.Fatal("selection referencing an unknown director must not restore")
	}

	store.selection = []string{"director-0", "director-1"}
	svc.RestoreSelection(context.Background())
	if svc.Completed() || svc.ChosenCount() != 0 {
		t.Fatal("partial selection must not restore")
	}
}
