package publish

import (
	"context"
	"fmt"
	"testing"

	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"go.uber.org/zap"
)

type fakeSlot struct {
	hashes     map[string]map[string]string
	published  []publishedMessage
	hmsetErr   error
	publishErr error
}

type publishedMessage struct {
	channel string
	payload string
}

func newFakeSlot() *fakeSlot {
	return &fakeSlot{hashes: map[string]map[string]string{}}
}

func (f *fakeSlot) HMSet(_ context.Context, key string, fields map[string]any) error {
	if f.hmsetErr != nil {
		return f.hmsetErr
	}
	hash, ok := f.hashes[key]
	if !ok {
		hash = map[string]string{}
		f.hashes[key] = hash
	}
	for field, value := range fields {
		hash[field] = fmt.Sprintf("%v", value)
	}
	return nil
}

func (f *fakeSlot) HGetAll(_ context.Context, key string) (map[string]string, error) {
	hash, ok := f.hashes[key]
	if !ok {
		return map[string]string{}, nil
	}
	return hash, nil
}

func (f *fakeSlot) Publish(_ context.Context, channel, payload string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedMessage{channel: channel, payload: payload})
	return nil
}

func testFilm() *domain.Film {
	return domain.NewFilm("Ran", 1985, "Akira Kurosawa", "Kurosawa-fan", "https://letterboxd.com/film/ran/")
}

func TestPublishedRecordRoundTrips(t *testing.T) {
	slot := newFakeSlot()
	publisher := NewPublisher(slot, zap.NewNop())
	reader := NewReader(slot, zap.NewNop())

	film := testFilm()
	if err := publisher.Publish(context.Background(), film); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	rec := reader.Read(context.Background())
	if rec.Title != film.Title {
		t.Fatalf("title mismatch: %q", rec.Title)
	}
	if rec.Year != film.ReleaseYear {
		t.Fatalf("year mismatch: %d", rec.Year)
	}
	if rec.OriginalDirector != film.OriginalDirector {
		t.Fatalf("original director mismatch: %q", rec.OriginalDirector)
	}
	if rec.Recommender != film.RecommendingDirector {
		t.Fatalf("recommender mismatch: %q", rec.Recommender)
	}
	if rec.LetterboxdURL != film.LetterboxdURL {
		t.Fatalf("url mismatch: %q", rec.LetterboxdURL)
	}
}

func TestReadBeforeFirstPublishYieldsLiteralFallbacks(t *testing.T) {
	reader := NewReader(newFakeSlot(), zap.NewNop())

	rec := reader.Read(context.Background())
	if rec.Title != "No Movie" {
		t.Fatalf("expected fallback title, got %q", rec.Title)
	}
	if rec.Year != 0 {
		t.Fatalf("expected fallback year 0, got %d", rec.Year)
	}
	if rec.OriginalDirector != "" || rec.Recommender != "" {
		t.Fatalf("expected empty director fields, got %q / %q", rec.OriginalDirector, rec.Recommender)
	}
	if rec.LetterboxdURL != "https://letterboxd.com" {
		t.Fatalf("expected fallback url, got %q", rec.LetterboxdURL)
	}
}

func TestPublishEmitsAdvisoryReloadSignal(t *testing.T) {
	slot := newFakeSlot()
	publisher := NewPublisher(slot, zap.NewNop())

	if err := publisher.Publish(context.Background(), testFilm()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(slot.published) != 1 {
		t.Fatalf("expected one reload signal, got %d", len(slot.published))
	}
	if slot.published[0].channel != constants.Channels.WidgetReload {
		t.Fatalf("signal sent to wrong channel: %q", slot.published[0].channel)
	}
}

func TestAdvisorySignalFailureDoesNotFailPublish(t *testing.T) {
	slot := newFakeSlot()
	slot.publishErr = fmt.Errorf("channel down")
	publisher := NewPublisher(slot, zap.NewNop())

	if err := publisher.Publish(context.Background(), testFilm()); err != nil {
		t.Fatalf("advisory failure must not fail the publish: %v", err)
	}
	if len(slot.hashes[constants.Slot.HashKey]) == 0 {
		t.Fatal("slot write should still have happened")
	}
}

func TestSlotWriteFailureSurfaces(t *testing.T) {
	slot := newFakeSlot()
	slot.hmsetErr = fmt.Errorf("slot unavailable")
	publisher := NewPublisher(slot, zap.NewNop())

	if err := publisher.Publish(context.Background(), testFilm()); err == nil {
		t.Fatal("expected slot write failure to surface")
	}
}

func TestPublishOverwritesPreviousRecord(t *testing.T) {
	slot := newFakeSlot()
	publisher := NewPublisher(slot, zap.NewNop())
	reader := NewReader(slot, zap.NewNop())

	publisher.Publish(context.Background(), testFilm())
	second := domain.NewFilm("Ikiru", 1952, "Akira Kurosawa", "Kurosawa-fan", "https://letterboxd.com/film/ikiru/")
	publisher.Publish(context.Background(), second)

	rec := reader.Read(context.Background())
	if rec.Title != "Ikiru" || rec.Year != 1952 {
		t.Fatalf("expected last write to win, got %q (%d)", rec.Title, rec.Year)
	}
}
