package ingestion

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/sbk-labs/dashboard-service/internal/database"
)

// Importer bulk-loads parsed records into the articles table.
type Importer struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewImporter creates an importer backed by the given database.
func NewImporter(db *database.DB, logger zerolog.Logger) *Importer {
	return &Importer{
		db:     db,
		logger: logger.With().Str("component", "ingestion").Logger(),
	}
}

// Import writes records using COPY. When truncate is set the table is
// emptied first, so the load replaces the catalog instead of appending.
func (im *Importer) Import(ctx context.Context, records []Record, truncate bool) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	if truncate {
		if _, err := im.db.Exec(ctx, `TRUNCATE TABLE articles`); err != nil {
			return 0, fmt.Errorf("truncate articles: %w", err)
		}
		im.logger.Info().Msg("articles table truncated before load")
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{
			rec.Title,
			rec.Authors,
			rec.PublicationDate,
			rec.Abstract,
			rec.Keywords,
			rec.Link,
			"", // content
			"", // conclusion
			0,  // chunk_id
		}
	}

	count, err := im.db.Pool().CopyFrom(ctx,
		pgx.Identifier{"articles"},
		[]string{"title", "authors", "publication_date", "abstract", "keywords", "link", "content", "conclusion", "chunk_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy articles: %w", err)
	}

	im.logger.Info().Int64("rows", count).Msg("catalog import complete")
	return count, nil
}
