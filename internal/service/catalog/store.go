package catalog

import (
	"context"

	"github.com/keiji/reeldaily/internal/domain"
)

// Store is the opaque document-store surface the app reads the director
// catalog from and writes the per-user selection to. The read side replaces
// the in-memory catalog wholesale; there is no incremental update.
type Store interface {
	// FetchDirectors returns every director document in the catalog.
	// Malformed director or movie records are silently dropped.
	FetchDirectors(ctx context.Context) ([]*domain.Director, error)

	// SaveSelection upsert-merges the chosen director ids into the
	// per-user document.
	SaveSelection(ctx context.Context, userID string, directorIDs []string) error

	// LoadSelection reads the chosen director ids back; a missing user
	// document is not an error and yields an empty slice.
	LoadSelection(ctx context.Context, userID string) ([]string, error)
}
