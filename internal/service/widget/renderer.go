package widget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"github.com/keiji/reeldaily/internal/util"
	"go.uber.org/zap"
)

// RecordSource yields the current published recommendation. Satisfied by
// publish.Reader; faked in tests.
type RecordSource interface {
	Read(ctx context.Context) *domain.RecommendationRecord
}

// Entry is one rendered widget state.
type Entry struct {
	Record *domain.RecommendationRecord
	Date   time.Time
}

// Renderer is the widget read path. It only ever pulls: nothing in the main
// process pushes into it at render time.
type Renderer struct {
	source RecordSource
	logger *zap.Logger
	now    func() time.Time
}

func NewRenderer(source RecordSource, logger *zap.Logger) *Renderer {
	return &Renderer{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Placeholder returns the fixed sentinel entry shown while the host decides
// what to draw. No slot read happens here.
func (r *Renderer) Placeholder() *Entry {
	return &Entry{
		Record: domain.ExampleRecord(),
		Date:   r.now(),
	}
}

// Snapshot returns the fixed example entry in a design/preview context and
// the real published record otherwise.
func (r *Renderer) Snapshot(ctx context.Context, preview bool) *Entry {
	if preview {
		return r.Placeholder()
	}
	return &Entry{
		Record: r.source.Read(ctx),
		Date:   r.now(),
	}
}

// Timeline reads the published record, emits a single entry and reports
// when the host should wake again: the next local midnight. This refresh
// cycle is the widget's own; it is independent of any scheduling the main
// process performed.
func (r *Renderer) Timeline(ctx context.Context) (*Entry, time.Time) {
	entry := &Entry{
		Record: r.source.Read(ctx),
		Date:   r.now(),
	}
	refresh := util.NextMidnight(r.now())

	r.logger.Debug("Timeline entry built",
		zap.String("title", entry.Record.Title),
		zap.Time("next_refresh", refresh),
	)

	return entry, refresh
}

// RenderCard formats an entry as the home-screen summary card, deep link
// included.
func (r *Renderer) RenderCard(entry *Entry) string {
	rec := entry.Record
	var b strings.Builder

	b.WriteString("🎬 Today's Pick\n")

	if !rec.HasFilm() {
		b.WriteString(fmt.Sprintf("%s\n", rec.Title))
		b.WriteString(fmt.Sprintf("Log films: %s\n", rec.LetterboxdURL))
		return b.String()
	}

	title := util.TruncateString(rec.Title, constants.StringLimits.CardTitle)
	b.WriteString(fmt.Sprintf("%s (%d)\n", title, rec.Year))
	if rec.OriginalDirector != "" {
		b.WriteString(fmt.Sprintf("Directed by %s\n", rec.OriginalDirector))
	}
	if rec.Recommender != "" {
		b.WriteString(fmt.Sprintf("Recommended by %s\n", rec.Recommender))
	}
	b.WriteString(fmt.Sprintf("Log it: %s\n", domain.BuildDeepLink(rec.LetterboxdURL)))

	return b.String()
}
