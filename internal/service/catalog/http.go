package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"github.com/keiji/reeldaily/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// HTTPStore talks to the hosted document store: a directors collection plus
// per-user selection documents. Requests are single-shot; a failed fetch is
// surfaced to the caller and never retried here.
type HTTPStore struct {
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	concurrency int
}

type directorListDocument struct {
	Documents []string `json:"documents"`
}

type directorDocument struct {
	Name              string            `json:"name"`
	RecommendedMovies []json.RawMessage `json:"recommendedMovies"`
}

type movieDocument struct {
	Title         string `json:"title"`
	Year          int    `json:"year"`
	Director      string `json:"director"`
	LetterboxdURL string `json:"letterboxdURL"`
}

type userDocument struct {
	SelectedDirectors []string `json:"selectedDirectors"`
}

func NewHTTPStore(baseURL string, logger *zap.Logger) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.CatalogConfig.FetchTimeout,
		},
		logger:      logger,
		concurrency: constants.CatalogConfig.FetchConcurrency,
	}
}

func (s *HTTPStore) FetchDirectors(ctx context.Context) ([]*domain.Director, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/directors", nil)
	if err != nil {
		return nil, err
	}

	var list directorListDocument
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.NewServiceError("failed to decode director list", "catalog", "fetch", err)
	}

	// Each goroutine owns its own index, so the slice needs no locking.
	directors := make([]*domain.Director, len(list.Documents))

	p := pool.New().WithMaxGoroutines(s.concurrency)
	for idx, id := range list.Documents {
		idx, id := idx, id
		p.Go(func() {
			directors[idx] = s.fetchDirector(ctx, id)
		})
	}
	p.Wait()

	result := make([]*domain.Director, 0, len(directors))
	for _, d := range directors {
		if d != nil {
			result = append(result, d)
		}
	}

	return result, nil
}

// fetchDirector returns nil for documents that cannot be fetched or decoded;
// a bad record drops silently instead of failing the whole catalog load.
func (s *HTTPStore) fetchDirector(ctx context.Context, id string) *domain.Director {
	if id == "" {
		return nil
	}

	body, err := s.doRequest(ctx, http.MethodGet, "/directors/"+id, nil)
	if err != nil {
		s.logger.Warn("Dropping director document", zap.String("id", id), zap.Error(err))
		return nil
	}

	var doc directorDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		s.logger.Warn("Dropping malformed director document", zap.String("id", id), zap.Error(err))
		return nil
	}
	if doc.Name == "" {
		s.logger.Warn("Dropping director document without a name", zap.String("id", id))
		return nil
	}

	films := make([]*domain.Film, 0, len(doc.RecommendedMovies))
	for _, raw := range doc.RecommendedMovies {
		var movie movieDocument
		if err := json.Unmarshal(raw, &movie); err != nil {
			s.logger.Debug("Dropping malformed movie record", zap.String("director", doc.Name), zap.Error(err))
			continue
		}
		if movie.Title == "" || movie.Year == 0 || movie.Director == "" || movie.LetterboxdURL == "" {
			s.logger.Debug("Dropping incomplete movie record",
				zap.String("director", doc.Name),
				zap.String("title", movie.Title),
			)
			continue
		}
		films = append(films, domain.NewFilm(movie.Title, movie.Year, movie.Director, doc.Name, movie.LetterboxdURL))
	}

	return &domain.Director{
		ID:               id,
		Name:             doc.Name,
		RecommendedFilms: films,
	}
}

func (s *HTTPStore) SaveSelection(ctx context.Context, userID string, directorIDs []string) error {
	payload, err := json.Marshal(userDocument{SelectedDirectors: directorIDs})
	if err != nil {
		return errors.NewServiceError("failed to encode selection", "catalog", "save_selection", err)
	}

	if _, err := s.doRequest(ctx, http.MethodPatch, "/users/"+userID, payload); err != nil {
		return err
	}
	return nil
}

func (s *HTTPStore) LoadSelection(ctx context.Context, userID string) ([]string, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/users/"+userID, nil)
	if err != nil {
		var apiErr *errors.APIError
		if stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc userDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.NewServiceError("failed to decode user document", "catalog", "load_selection", err)
	}
	return doc.SelectedDirectors, nil
}

func (s *HTTPStore) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, errors.NewAPIError(fmt.Sprintf("catalog request failed: %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"path": path,
		})
	}

	return body, nil
}
