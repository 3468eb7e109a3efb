package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/keiji/reeldaily/internal/domain"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore implements Store against a self-hosted catalog database.
// Schema: directors(id, name), films(director_id, position, title, year,
// director, letterboxd_url), users(id, selected_directors).
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func NewPostgresStore(cfg PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return &PostgresStore{
		db:     db,
		logger: logger,
	}, nil
}

func (s *PostgresStore) FetchDirectors(ctx context.Context) ([]*domain.Director, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, f.title, f.year, f.director, f.letterboxd_url
		FROM directors d
		LEFT JOIN films f ON f.director_id = d.id
		ORDER BY d.name, f.position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query directors: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Director)
	order := make([]*domain.Director, 0)

	for rows.Next() {
		var (
			id, name      string
			title         sql.NullString
			year          sql.NullInt64
			origDirector  sql.NullString
			letterboxdURL sql.NullString
		)
		if err := rows.Scan(&id, &name, &title, &year, &origDirector, &letterboxdURL); err != nil {
			s.logger.Warn("Dropping unreadable catalog row", zap.Error(err))
			continue
		}

		director, ok := byID[id]
		if !ok {
			director = &domain.Director{ID: id, Name: name, RecommendedFilms: []*domain.Film{}}
			byID[id] = director
			order = append(order, director)
		}

		// LEFT JOIN: a director with no films yields NULL film columns.
		if !title.Valid {
			continue
		}
		if title.String == "" || year.Int64 == 0 || origDirector.String == "" || letterboxdURL.String == "" {
			s.logger.Debug("Dropping incomplete film row",
				zap.String("director", name),
				zap.String("title", title.String),
			)
			continue
		}

		director.RecommendedFilms = append(director.RecommendedFilms,
			domain.NewFilm(title.String, int(year.Int64), origDirector.String, name, letterboxdURL.String))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read directors: %w", err)
	}

	return order, nil
}

func (s *PostgresStore) SaveSelection(ctx context.Context, userID string, directorIDs []string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, selected_directors)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET selected_directors = EXCLUDED.selected_directors`,
		userID, pq.Array(directorIDs))
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadSelection(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.QueryRowContext(ctx,
		`SELECT selected_directors FROM users WHERE id = $1`, userID).Scan(pq.Array(&ids))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
