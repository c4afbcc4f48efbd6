package repository

import (
	"context"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// ArticleRepository manages read access to the articles relation.
//
// The catalog is read-only from the dashboard's point of view: rows are
// produced by an ingestion pipeline outside this service. Deduplication
// and filtering happen in the catalog service, not in SQL, so the listing
// order here is load-bearing: it decides which duplicate row wins.
type ArticleRepository interface {
	// List returns all articles ordered by publication_date descending,
	// then chunk_id ascending. Null publication dates sort last.
	List(ctx context.Context) ([]domain.Article, error)

	// Count returns the total number of article rows, duplicates included.
	Count(ctx context.Context) (int, error)
}
