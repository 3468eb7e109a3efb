package widget

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/keiji/reeldaily/internal/domain"
	"go.uber.org/zap"
)

type fakeSource struct {
	record *domain.RecommendationRecord
	reads  int
}

func (f *fakeSource) Read(_ context.Context) *domain.RecommendationRecord {
	f.reads++
	if f.record == nil {
		return domain.FallbackRecord()
	}
	return f.record
}

func publishedRecord() *domain.RecommendationRecord {
	return &domain.RecommendationRecord{
		Title:            "High and Low",
		Year:             1963,
		OriginalDirector: "Akira Kurosawa",
		Recommender:      "Kurosawa-fan",
		LetterboxdURL:    "https://letterboxd.com/film/high-and-low/",
	}
}

func TestPlaceholderIsFixedAndReadsNothing(t *testing.T) {
	source := &fakeSource{record: publishedRecord()}
	renderer := NewRenderer(source, zap.NewNop())

	entry := renderer.Placeholder()
	if *entry.Record != *domain.ExampleRecord() {
		t.Fatalf("placeholder must be the fixed sentinel, got %+v", entry.Record)
	}
	if source.reads != 0 {
		t.Fatal("placeholder must not touch the shared slot")
	}
}

func TestSnapshotPreviewUsesExampleRecord(t *testing.T) {
	source := &fakeSource{record: publishedRecord()}
	renderer := NewRenderer(source, zap.NewNop())

	entry := renderer.Snapshot(context.Background(), true)
	if *entry.Record != *domain.ExampleRecord() {
		t.Fatal("preview snapshot must use the fixed example record")
	}
	if source.reads != 0 {
		t.Fatal("preview snapshot must not read the slot")
	}
}

func TestSnapshotReadsRealRecordOutsidePreview(t *testing.T) {
	source := &fakeSource{record: publishedRecord()}
	renderer := NewRenderer(source, zap.NewNop())

	entry := renderer.Snapshot(context.Background(), false)
	if entry.Record.Title != "High and Low" {
		t.Fatalf("expected the published record, got %q", entry.Record.Title)
	}
	if source.reads != 1 {
		t.Fatalf("expected one slot read, got %d", source.reads)
	}
}

func TestTimelineSchedulesNextLocalMidnight(t *testing.T) {
	source := &fakeSource{record: publishedRecord()}
	renderer := NewRenderer(source, zap.NewNop())

	loc := time.FixedZone("TST", 9*60*60)
	now := time.Date(2026, 8, 30, 15, 4, 5, 0, loc)
	renderer.now = func() time.Time { return now }

	entry, refresh := renderer.Timeline(context.Background())
	if entry.Record.Title != "High and Low" {
		t.Fatalf("expected the published record, got %q", entry.Record.Title)
	}

	want := time.Date(2026, 8, 31, 0, 0, 0, 0, loc)
	if !refresh.Equal(want) {
		t.Fatalf("expected refresh at %v, got %v", want, refresh)
	}
}

func TestRenderCardIncludesDeepLink(t *testing.T) {
	renderer := NewRenderer(&fakeSource{}, zap.NewNop())

	card := renderer.RenderCard(&Entry{Record: publishedRecord(), Date: time.Now()})
	if !strings.Contains(card, "High and Low (1963)") {
		t.Fatalf("card missing film line:\n%s", card)
	}
	if !strings.Contains(card, "Recommended by Kurosawa-fan") {
		t.Fatalf("card missing recommender line:\n%s", card)
	}
	if !strings.Contains(card, "reeldaily://recommendation?movieURL=") {
		t.Fatalf("card missing deep link:\n%s", card)
	}
}

func TestRenderCardFallbackBeforeFirstPublish(t *testing.T) {
	renderer := NewRenderer(&fakeSource{}, zap.NewNop())

	card := renderer.RenderCard(&Entry{Record: domain.FallbackRecord(), Date: time.Now()})
	if !strings.Contains(card, "No Movie") {
		t.Fatalf("fallback card missing sentinel title:\n%s", card)
	}
	if !strings.Contains(card, "https://letterboxd.com") {
		t.Fatalf("fallback card missing fixed url:\n%s", card)
	}
}
