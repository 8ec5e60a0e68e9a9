package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apifault/apifault/query"
)

// Article is the demo resource served by the article routes.
type Article struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// sortableProperties are the article properties a listing may sort by.
var sortableProperties = []string{"name", "createdAt", "rating"}

// ArticleStore reads articles for the demo routes. Implementations
// surface their failures untranslated; the app's error handler decides
// how they reach the client.
type ArticleStore interface {
	Get(ctx context.Context, id string) (Article, error)
	List(ctx context.Context, sorts []query.Sort, limit, offset int) ([]Article, error)
}

// PostgresArticleStore reads articles from PostgreSQL.
type PostgresArticleStore struct {
	pool *pgxpool.Pool
}

// NewPostgresArticleStore creates a store backed by the given pool
func NewPostgresArticleStore(pool *pgxpool.Pool) *PostgresArticleStore {
	return &PostgresArticleStore{pool: pool}
}

// Get loads a single article by ID.
func (s *PostgresArticleStore) Get(ctx context.Context, id string) (Article, error) {
	var a Article
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, summary, rating, created_at FROM articles WHERE id = $1", id,
	).Scan(&a.ID, &a.Name, &a.Summary, &a.Rating, &a.CreatedAt)
	if err != nil {
		return Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return a, nil
}

// List loads articles ordered by sorts. Sort properties were validated
// against sortableProperties, so interpolating their columns is safe.
func (s *PostgresArticleStore) List(ctx context.Context, sorts []query.Sort, limit, offset int) ([]Article, error) {
	sql := "SELECT id, name, summary, rating, created_at FROM articles"
	if len(sorts) > 0 {
		clauses := make([]string, len(sorts))
		for i, srt := range sorts {
			clauses[i] = columnFor(srt.Property) + " " + strings.ToUpper(srt.Direction)
		}
		sql += " ORDER BY " + strings.Join(clauses, ", ")
	}
	sql += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Name, &a.Summary, &a.Rating, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func columnFor(property string) string {
	switch property {
	case "createdAt":
		return "created_at"
	default:
		return property
	}
}

// MemoryArticleStore serves a fixed set of articles when no database is
// configured. Missing rows surface as pgx.ErrNoRows so failures reach
// the client exactly like the PostgreSQL store's.
type MemoryArticleStore struct {
	articles []Article
}

// NewMemoryArticleStore creates a store with canned demo articles
func NewMemoryArticleStore() *MemoryArticleStore {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	return &MemoryArticleStore{
		articles: []Article{
			{ID: "art_1", Name: "Structured logging in practice", Summary: "Field conventions that survive grep.", Rating: 4, CreatedAt: base},
			{ID: "art_2", Name: "Pagination without offsets", Summary: "Cursor encoding tradeoffs.", Rating: 5, CreatedAt: base.Add(24 * time.Hour)},
			{ID: "art_3", Name: "Error contracts for HTTP APIs", Summary: "One envelope, five failure shapes.", Rating: 3, CreatedAt: base.Add(48 * time.Hour)},
		},
	}
}

// Get loads a single article by ID.
func (s *MemoryArticleStore) Get(ctx context.Context, id string) (Article, error) {
	for _, a := range s.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return Article{}, fmt.Errorf("get article %s: %w", id, pgx.ErrNoRows)
}

// List returns the canned articles ordered by sorts.
func (s *MemoryArticleStore) List(ctx context.Context, sorts []query.Sort, limit, offset int) ([]Article, error) {
	out := make([]Article, len(s.articles))
	copy(out, s.articles)

	if len(sorts) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, srt := range sorts {
				cmp := compareArticles(out[i], out[j], srt.Property)
				if cmp == 0 {
					continue
				}
				if srt.Direction == query.DirectionDesc {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func compareArticles(a, b Article, property string) int {
	switch property {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "rating":
		return a.Rating - b.Rating
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return 0
	}
}
