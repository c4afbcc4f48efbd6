//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbk-labs/dashboard-service/internal/catalog"
	"github.com/sbk-labs/dashboard-service/internal/repository"
	"github.com/sbk-labs/dashboard-service/internal/session"
)

type articleRow struct {
	title   string
	authors string
	pubDate *time.Time
	link    string
	chunkID int
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func insertArticles(t *testing.T, rows []articleRow) {
	t.Helper()
	ctx := context.Background()
	for _, row := range rows {
		_, err := testPool.Exec(ctx, `
			INSERT INTO articles (title, authors, publication_date, abstract, keywords, link, content, conclusion, chunk_id)
			VALUES ($1, $2, $3, '', '', $4, '', '', $5)`,
			row.title, row.authors, row.pubDate, row.link, row.chunkID)
		require.NoError(t, err)
	}
}

func TestPgArticleRepository_Integration(t *testing.T) {
	cleanTable(t, "articles")
	repo := repository.NewPgArticleRepository(testPool)
	ctx := context.Background()

	t.Run("List orders by publication date then chunk", func(t *testing.T) {
		cleanTable(t, "articles")
		insertArticles(t, []articleRow{
			{title: "Bone Density in Microgravity", authors: "Reyes M.", pubDate: date(2021, time.March, 4), link: "https://example.org/bone", chunkID: 1},
			{title: "Bone Density in Microgravity", authors: "Reyes M.", pubDate: date(2021, time.March, 4), link: "https://example.org/bone", chunkID: 0},
			{title: "Plant Growth Aboard ISS", authors: "Okafor C.", pubDate: date(2023, time.July, 12), link: "https://example.org/plants", chunkID: 0},
			{title: "Undated Technical Note", authors: "Silva T.", pubDate: nil, link: "https://example.org/note", chunkID: 0},
		})

		articles, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, articles, 4)

		// Newest first, chunks in ascending order, undated rows last.
		assert.Equal(t, "Plant Growth Aboard ISS", articles[0].Title)
		assert.Equal(t, 0, articles[1].ChunkID)
		assert.Equal(t, "https://example.org/bone", articles[1].Link)
		assert.Equal(t, 1, articles[2].ChunkID)
		assert.Equal(t, "Undated Technical Note", articles[3].Title)
	})

	t.Run("Count includes every chunk row", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("List on empty table returns no rows", func(t *testing.T) {
		cleanTable(t, "articles")
		articles, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, articles)
	})
}

// The catalog's dedup contract depends on the repository's ordering: the
// first row per link wins, so each article must surface its lowest chunk
// of the most recent publication date.
func TestCatalogOverPostgres_Integration(t *testing.T) {
	cleanTable(t, "articles")
	insertArticles(t, []articleRow{
		{title: "Bone Density in Microgravity", authors: "Reyes M.", pubDate: date(2021, time.March, 4), link: "https://example.org/bone", chunkID: 2},
		{title: "Bone Density in Microgravity", authors: "Reyes M.", pubDate: date(2021, time.March, 4), link: "https://example.org/bone", chunkID: 0},
		{title: "Bone Density in Microgravity", authors: "Reyes M.", pubDate: date(2021, time.March, 4), link: "https://example.org/bone", chunkID: 1},
		{title: "Plant Growth Aboard ISS", authors: "Okafor C.", pubDate: date(2023, time.July, 12), link: "https://example.org/plants", chunkID: 0},
	})

	repo := repository.NewPgArticleRepository(testPool)
	svc := catalog.NewService(repo, session.NewStore(), session.NewStaging(), nil, zerolog.Nop())

	articles, stats, err := svc.List(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalRows)
	assert.Equal(t, 2, stats.UniqueArticles)
	require.Len(t, articles, 2)
	assert.Equal(t, "Plant Growth Aboard ISS", articles[0].Title)
	assert.Equal(t, 0, articles[1].ChunkID)
}
