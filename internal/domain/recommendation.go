package domain

import (
	"strconv"

	"github.com/keiji/reeldaily/internal/constants"
)

// RecommendationRecord is the flat five-field shape written to the shared
// slot and read back by the widget process. Single slot, last-write-wins.
type RecommendationRecord struct {
	Title            string `json:"recTitle"`
	Year             int    `json:"recYear"`
	OriginalDirector string `json:"recOriginalDirector"`
	Recommender      string `json:"recRecommender"`
	LetterboxdURL    string `json:"recLetterboxdURL"`
}

func RecordFromFilm(f *Film) *RecommendationRecord {
	return &RecommendationRecord{
		Title:            f.Title,
		Year:             f.ReleaseYear,
		OriginalDirector: f.OriginalDirector,
		Recommender:      f.RecommendingDirector,
		LetterboxdURL:    f.LetterboxdURL,
	}
}

// FallbackRecord is what a reader sees before the first recommendation has
// ever been published.
func FallbackRecord() *RecommendationRecord {
	return &RecommendationRecord{
		Title:            constants.Fallback.Title,
		Year:             constants.Fallback.Year,
		OriginalDirector: "",
		Recommender:      "",
		LetterboxdURL:    constants.Fallback.LetterboxdURL,
	}
}

// ExampleRecord is the fixed, non-random sentinel shown by the widget in
// placeholder and design-preview contexts.
func ExampleRecord() *RecommendationRecord {
	return &RecommendationRecord{
		Title:            "Seven Samurai",
		Year:             1954,
		OriginalDirector: "Akira Kurosawa",
		Recommender:      "Your five directors",
		LetterboxdURL:    "https://letterboxd.com/film/seven-samurai/",
	}
}

// Fields returns the slot field map used for the shared write.
func (r *RecommendationRecord) Fields() map[string]any {
	return map[string]any{
		constants.Slot.Title:            r.Title,
		constants.Slot.Year:             r.Year,
		constants.Slot.OriginalDirector: r.OriginalDirector,
		constants.Slot.Recommender:      r.Recommender,
		constants.Slot.LetterboxdURL:    r.LetterboxdURL,
	}
}

// RecordFromFields rebuilds a record from raw slot fields. Each field falls
// back independently so a reader racing the writer still gets a usable
// record out of a mixed old/new view.
func RecordFromFields(fields map[string]string) *RecommendationRecord {
	rec := FallbackRecord()

	if title, ok := fields[constants.Slot.Title]; ok && title != "" {
		rec.Title = title
	}
	if raw, ok := fields[constants.Slot.Year]; ok {
		if year, err := strconv.Atoi(raw); err == nil {
			rec.Year = year
		}
	}
	if director, ok := fields[constants.Slot.OriginalDirector]; ok {
		rec.OriginalDirector = director
	}
	if recommender, ok := fields[constants.Slot.Recommender]; ok {
		rec.Recommender = recommender
	}
	if link, ok := fields[constants.Slot.LetterboxdURL]; ok && link != "" {
		rec.LetterboxdURL = link
	}

	return rec
}

// HasFilm reports whether the record carries a real pick rather than the
// pre-publish fallback.
func (r *RecommendationRecord) HasFilm() bool {
	return r.Title != constants.Fallback.Title
}
