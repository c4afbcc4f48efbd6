package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "title", "authors", "publication_date", "abstract",
		"keywords", "link", "content", "conclusion", "chunk_id",
	})
}

func TestNewPgArticleRepository(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgArticleRepository(mock)
	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

func TestPgArticleRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns articles in store order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		older := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT(?s).+FROM articles(?s).+ORDER BY publication_date DESC NULLS LAST, chunk_id ASC`).
			WillReturnRows(articleRows().
				AddRow(int64(1), "Bone Loss in Microgravity", "Doe, Smith", &newer,
					"Abstract one", "bone,microgravity", "https://example.com/a", "chunk text", "conclusion", 0).
				AddRow(int64(2), "Bone Loss in Microgravity", "Doe, Smith", &newer,
					"Abstract one", "bone,microgravity", "https://example.com/a", "chunk text 2", "conclusion", 1).
				AddRow(int64(3), "Plant Growth Aboard ISS", "Lee", &older,
					"Abstract two", "plants", "https://example.com/b", "", "", 0))

		repo := NewPgArticleRepository(mock)
		articles, err := repo.List(ctx)
		require.NoError(t, err)

		require.Len(t, articles, 3)
		assert.Equal(t, int64(1), articles[0].ID)
		assert.Equal(t, 0, articles[0].ChunkID)
		assert.Equal(t, 1, articles[1].ChunkID)
		assert.Equal(t, "https://example.com/b", articles[2].Link)
		require.NotNil(t, articles[0].PublicationDate)
		assert.Equal(t, newer, *articles[0].PublicationDate)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("handles null publication date", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT").
			WillReturnRows(articleRows().
				AddRow(int64(4), "Undated Study", "", (*time.Time)(nil),
					"", "", "https://example.com/c", "", "", 0))

		repo := NewPgArticleRepository(mock)
		articles, err := repo.List(ctx)
		require.NoError(t, err)

		require.Len(t, articles, 1)
		assert.Nil(t, articles[0].PublicationDate)
	})

	t.Run("returns empty slice for empty table", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT").WillReturnRows(articleRows())

		repo := NewPgArticleRepository(mock)
		articles, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, articles)
	})

	t.Run("wraps query errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

		repo := NewPgArticleRepository(mock)
		_, err = repo.List(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list articles")
	})
}

func TestPgArticleRepository_Count(t *testing.T) {
	ctx := context.Background()

	t.Run("returns row count", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM articles`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

		repo := NewPgArticleRepository(mock)
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 42, count)
	})

	t.Run("wraps query errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM articles`).
			WillReturnError(errors.New("connection refused"))

		repo := NewPgArticleRepository(mock)
		_, err = repo.Count(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to count articles")
	})
}
