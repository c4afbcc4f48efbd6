package repository

import (
	"context"
	"fmt"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Compile-time interface verification.
var _ ArticleRepository = (*PgArticleRepository)(nil)

// PgArticleRepository is a PostgreSQL implementation of ArticleRepository.
type PgArticleRepository struct {
	db DBTX
}

// NewPgArticleRepository creates a new PostgreSQL article repository.
func NewPgArticleRepository(db DBTX) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

// articleColumns is the select list shared by article queries.
const articleColumns = `
	id, title, authors, publication_date, abstract,
	keywords, link, content, conclusion, chunk_id`

// List returns all articles ordered by publication_date descending, then
// chunk_id ascending. The ordering is part of the contract: the catalog's
// dedup keeps the first row per link, so this order decides which chunk
// represents each article.
func (r *PgArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	query := `
		SELECT` + articleColumns + `
		FROM articles
		ORDER BY publication_date DESC NULLS LAST, chunk_id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Authors,
			&a.PublicationDate,
			&a.Abstract,
			&a.Keywords,
			&a.Link,
			&a.Content,
			&a.Conclusion,
			&a.ChunkID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

// Count returns the total number of article rows.
func (r *PgArticleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}
