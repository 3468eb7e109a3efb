package domain

import "github.com/google/uuid"

type Film struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	ReleaseYear          int    `json:"releaseYear"`
	OriginalDirector     string `json:"originalDirector"`
	RecommendingDirector string `json:"recommendingDirector"`
	LetterboxdURL        string `json:"letterboxdURL"`
}

// NewFilm constructs an immutable film record. The id is incidental: unique
// per construction, never used as a persistence or deduplication key.
func NewFilm(title string, releaseYear int, originalDirector, recommendingDirector, letterboxdURL string) *Film {
	return &Film{
		ID:                   uuid.NewString(),
		Title:                title,
		ReleaseYear:          releaseYear,
		OriginalDirector:     originalDirector,
		RecommendingDirector: recommendingDirector,
		LetterboxdURL:        letterboxdURL,
	}
}
