package httpserver

import (
	"time"

	"github.com/sbk-labs/dashboard-service/internal/catalog"
	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Article response types for JSON serialization.

type articleResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Authors         string     `json:"authors,omitempty"`
	FirstAuthor     string     `json:"first_author,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	Abstract        string     `json:"abstract,omitempty"`
	Keywords        []string   `json:"keywords,omitempty"`
	Link            string     `json:"link"`
	Topic           string     `json:"topic"`
	ChunkID         int        `json:"chunk_id"`
}

type listArticlesResponse struct {
	Articles []articleResponse `json:"articles"`
	Stats    catalog.Stats     `json:"stats"`
}

type selectArticleRequest struct {
	Article  articlePayload `json:"article"`
	ReadPath string         `json:"read_path,omitempty"`
}

// articlePayload is the client-supplied article shape accepted by the
// select, summary, and ask endpoints. Content and conclusion ride along so
// prompt context can be built without another store round trip.
type articlePayload struct {
	Title           string  `json:"title"`
	Authors         string  `json:"authors,omitempty"`
	PublicationDate *string `json:"publication_date,omitempty"`
	Abstract        string  `json:"abstract,omitempty"`
	Keywords        string  `json:"keywords,omitempty"`
	Link            string  `json:"link,omitempty"`
	Content         string  `json:"content,omitempty"`
	Conclusion      string  `json:"conclusion,omitempty"`
}

type selectArticleResponse struct {
	RedirectTo string `json:"redirect_to"`
}

type summaryRequest struct {
	Article *articlePayload `json:"article"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type askRequest struct {
	Article  *articlePayload `json:"article"`
	Question string          `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Converter functions

func domainArticleToResponse(a domain.Article) articleResponse {
	return articleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Authors:         a.Authors,
		FirstAuthor:     a.FirstAuthor(),
		PublicationDate: a.PublicationDate,
		Abstract:        a.Abstract,
		Keywords:        a.KeywordList(),
		Link:            a.Link,
		Topic:           domain.Slugify(a.Title),
		ChunkID:         a.ChunkID,
	}
}

func (p *articlePayload) toDomain() domain.Article {
	a := domain.Article{
		Title:      p.Title,
		Authors:    p.Authors,
		Abstract:   p.Abstract,
		Keywords:   p.Keywords,
		Link:       p.Link,
		Content:    p.Content,
		Conclusion: p.Conclusion,
	}
	if p.PublicationDate != nil {
		if t, err := time.Parse(time.RFC3339, *p.PublicationDate); err == nil {
			a.PublicationDate = &t
		} else if t, err := time.Parse("2006-01-02", *p.PublicationDate); err == nil {
			a.PublicationDate = &t
		}
	}
	return a
}
