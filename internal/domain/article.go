// Package domain provides domain models and business logic for the bioscience dashboard service.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// Article represents a single research publication row from the articles store.
//
// The store keeps one row per content chunk, so multiple rows may share the
// same Link. The catalog layer treats Link as the identity of an article and
// keeps the first row encountered in (publication_date DESC, chunk_id ASC)
// order; that row carries the lowest chunk of the article's content.
type Article struct {
	// ID is the row identifier in the articles table.
	ID int64

	// Title is the publication title.
	Title string

	// Authors is a comma-joined author list as stored upstream.
	Authors string

	// PublicationDate is the publication date, if known.
	PublicationDate *time.Time

	// Abstract is the publication abstract.
	Abstract string

	// Keywords is a comma-joined keyword list as stored upstream.
	Keywords string

	// Link is the canonical URL of the publication. It is the dedup key.
	Link string

	// Content is the chunked full text, when present.
	Content string

	// Conclusion is the extracted conclusion section, when present.
	Conclusion string

	// ChunkID orders content chunks that share the same Link.
	ChunkID int
}

// FirstAuthor returns the first author from the comma-joined Authors field,
// or an empty string when no authors are recorded.
func (a *Article) FirstAuthor() string {
	if a.Authors == "" {
		return ""
	}
	first, _, _ := strings.Cut(a.Authors, ",")
	return strings.TrimSpace(first)
}

// KeywordList splits the comma-joined Keywords field into trimmed, non-empty
// entries.
func (a *Article) KeywordList() []string {
	if a.Keywords == "" {
		return nil
	}
	parts := strings.Split(a.Keywords, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// MatchesQuery reports whether the article matches a case-insensitive
// substring search over title, abstract, keywords, and authors.
func (a *Article) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Abstract), q) ||
		strings.Contains(strings.ToLower(a.Keywords), q) ||
		strings.Contains(strings.ToLower(a.Authors), q)
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify converts an article title into a URL topic slug: lowercase,
// punctuation stripped, whitespace collapsed to single hyphens. An empty
// title yields "untitled".
func Slugify(title string) string {
	if title == "" {
		return "untitled"
	}
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// ReadableTopic converts a topic slug back into display form: hyphens become
// spaces and each word is title-cased. An empty slug maps to the fixed
// "General Knowledge" default used across the dashboard views.
func ReadableTopic(slug string) string {
	if slug == "" {
		return "General Knowledge"
	}
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
