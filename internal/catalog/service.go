// Package catalog provides the article catalog: listing with
// deduplication, substring search, and selection staging for the login
// hand-off.
package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sbk-labs/dashboard-service/internal/domain"
	"github.com/sbk-labs/dashboard-service/internal/observability"
	"github.com/sbk-labs/dashboard-service/internal/repository"
	"github.com/sbk-labs/dashboard-service/internal/session"
)

// Stats summarizes the catalog: raw row count versus unique articles after
// link deduplication.
type Stats struct {
	TotalRows      int `json:"total_rows"`
	UniqueArticles int `json:"unique_articles"`
}

// Service serves the deduplicated article catalog.
type Service struct {
	articles repository.ArticleRepository
	sessions *session.Store
	staging  *session.Staging
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

// NewService creates a catalog service.
func NewService(articles repository.ArticleRepository, sessions *session.Store, staging *session.Staging, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		articles: articles,
		sessions: sessions,
		staging:  staging,
		metrics:  metrics,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
}

// List returns unique articles matching the query, plus catalog stats.
//
// The store keeps one row per content chunk, so the raw listing contains
// repeated links. Identity is the link: the first row per link in the
// store's (publication_date DESC, chunk_id ASC) order wins, and later rows
// for the same link are dropped regardless of their other columns. An
// empty query matches everything.
func (s *Service) List(ctx context.Context, query string) ([]domain.Article, Stats, error) {
	rows, err := s.articles.List(ctx)
	if err != nil {
		return nil, Stats{}, err
	}

	unique := Deduplicate(rows)
	stats := Stats{TotalRows: len(rows), UniqueArticles: len(unique)}

	matched := Filter(unique, query)

	if s.metrics != nil {
		s.metrics.RecordCatalogQuery(query != "", len(matched))
	}
	s.logger.Debug().
		Int("rows", stats.TotalRows).
		Int("unique", stats.UniqueArticles).
		Int("matched", len(matched)).
		Msg("catalog listed")

	return matched, stats, nil
}

// Select stages an article for the reading view. When the session is
// logged out, the article and a redirect target are staged for after
// login and the returned path points at the login page; when logged in,
// the article is staged and the redirect is the reading view itself.
func (s *Service) Select(article domain.Article, readPath string) string {
	s.staging.StageArticle(article)

	if s.sessions.IsLoggedIn() {
		return readPath
	}

	s.staging.StageRedirect(readPath)
	return "/login"
}

// Article resolves the article for a reading-view slug. The staged
// selection is checked first so the usual select-then-read flow never hits
// the store; a direct visit (bookmark, refresh after the staging was
// consumed elsewhere) falls back to a catalog scan by title slug.
func (s *Service) Article(ctx context.Context, slug string) (domain.Article, error) {
	if staged, ok := s.staging.PeekArticle(); ok && domain.Slugify(staged.Title) == slug {
		return staged, nil
	}

	rows, err := s.articles.List(ctx)
	if err != nil {
		return domain.Article{}, err
	}
	for _, a := range Deduplicate(rows) {
		if domain.Slugify(a.Title) == slug {
			return a, nil
		}
	}
	return domain.Article{}, domain.ErrNotFound
}

// Deduplicate keeps the first article per link, preserving input order.
// Articles with an empty link are all kept: absent an identity there is
// nothing to collapse.
func Deduplicate(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.Link != "" {
			if _, dup := seen[a.Link]; dup {
				continue
			}
			seen[a.Link] = struct{}{}
		}
		unique = append(unique, a)
	}
	return unique
}

// Filter returns articles matching a case-insensitive substring search
// over title, abstract, keywords, and authors, preserving input order.
func Filter(articles []domain.Article, query string) []domain.Article {
	matched := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.MatchesQuery(query) {
			matched = append(matched, a)
		}
	}
	return matched
}
