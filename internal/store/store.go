// Package store persists generated articles and application settings in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ObiAU/smartpost/internal/models"
)

var ErrNotFound = errors.New("article not found")

// timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates the database file and schema if needed and seeds the
// default settings.
func Open(dbPath string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS articles (
			id         TEXT PRIMARY KEY,
			status     TEXT NOT NULL,
			image_url  TEXT NOT NULL DEFAULT '',
			topic      TEXT NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0,
			post       TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at DESC);

		CREATE TABLE IF NOT EXISTS settings (
			id   INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	defaults, err := json.Marshal(models.DefaultSettings())
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO settings (id, data) VALUES (1, ?)`, string(defaults)); err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListArticles(ctx context.Context) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, image_url, post, created_at, updated_at
		FROM articles
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *Store) GetArticle(ctx context.Context, id string) (models.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, image_url, post, created_at, updated_at
		FROM articles WHERE id = ?
	`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, ErrNotFound
	}
	return a, err
}

// SaveArticle stores a new draft for post and returns it with its id.
func (s *Store) SaveArticle(ctx context.Context, post models.GeneratedPost, imageURL string) (models.Article, error) {
	now := s.now().UTC()
	a := models.Article{
		ID:        uuid.NewString(),
		Status:    models.StatusDraft,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
		Post:      post,
	}

	blob, err := json.Marshal(post)
	if err != nil {
		return models.Article{}, fmt.Errorf("encoding post: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (id, status, image_url, topic, word_count, post, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.Status), a.ImageURL, post.Topic, post.WordCount, string(blob),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return models.Article{}, fmt.Errorf("inserting article: %w", err)
	}
	return a, nil
}

// UpdateArticle applies the non-nil fields of update.
func (s *Store) UpdateArticle(ctx context.Context, id string, update models.ArticleUpdate) (models.Article, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Article{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, status, image_url, post, created_at, updated_at
		FROM articles WHERE id = ?
	`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, ErrNotFound
	}
	if err != nil {
		return models.Article{}, err
	}

	if update.Status != nil {
		a.Status = *update.Status
	}
	if update.ImageURL != nil {
		a.ImageURL = *update.ImageURL
	}
	if update.Post != nil {
		a.Post = *update.Post
	}
	a.UpdatedAt = s.now().UTC()

	blob, err := json.Marshal(a.Post)
	if err != nil {
		return models.Article{}, fmt.Errorf("encoding post: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE articles
		SET status = ?, image_url = ?, topic = ?, word_count = ?, post = ?, updated_at = ?
		WHERE id = ?
	`, string(a.Status), a.ImageURL, a.Post.Topic, a.Post.WordCount, string(blob), a.UpdatedAt.Format(timeLayout), id)
	if err != nil {
		return models.Article{}, fmt.Errorf("updating article %s: %w", id, err)
	}
	return a, tx.Commit()
}

func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting article %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	var data string
	if err := s.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data); err != nil {
		return models.Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	settings := models.DefaultSettings()
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings merges the non-empty fields of update into the stored
// settings and returns the result.
func (s *Store) UpdateSettings(ctx context.Context, update models.Settings) (models.Settings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	merged := current.Merge(update)

	data, err := json.Marshal(merged)
	if err != nil {
		return models.Settings{}, err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE settings SET data = ? WHERE id = 1`, string(data)); err != nil {
		return models.Settings{}, fmt.Errorf("writing settings: %w", err)
	}
	return merged, nil
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(word_count), 0)
		FROM articles
	`, string(models.StatusDraft), string(models.StatusPublished)).Scan(
		&st.TotalArticles, &st.DraftCount, &st.PublishedCount, &st.TotalWords)
	if err != nil {
		return models.Stats{}, fmt.Errorf("computing stats: %w", err)
	}
	return st, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (models.Article, error) {
	var (
		a                models.Article
		status, blob     string
		created, updated string
	)
	if err := row.Scan(&a.ID, &status, &a.ImageURL, &blob, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Article{}, err
		}
		return models.Article{}, fmt.Errorf("scanning article: %w", err)
	}
	a.Status = models.ArticleStatus(status)
	if err := json.Unmarshal([]byte(blob), &a.Post); err != nil {
		return models.Article{}, fmt.Errorf("decoding post %s: %w", a.ID, err)
	}

	var err error
	if a.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return models.Article{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return models.Article{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return a, nil
}
