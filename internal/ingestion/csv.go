// Package ingestion loads publication catalog exports into the articles
// table. The canonical export is a CSV with Title and Link columns;
// richer exports may also carry authors, dates, abstracts and keywords.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Record is one publication row parsed from a catalog export.
type Record struct {
	Title           string
	Authors         string
	PublicationDate *time.Time
	Abstract        string
	Keywords        string
	Link            string
}

// columnIndexes maps the header row to field positions. Title and Link are
// required; the remaining columns are optional.
type columnIndexes struct {
	title    int
	authors  int
	pubDate  int
	abstract int
	keywords int
	link     int
}

// Parse reads a catalog CSV export. Rows with an empty title are skipped;
// a missing Title or Link column is an error.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}

		rec := Record{
			Title:    field(row, cols.title),
			Authors:  field(row, cols.authors),
			Abstract: field(row, cols.abstract),
			Keywords: field(row, cols.keywords),
			Link:     field(row, cols.link),
		}
		if rec.Title == "" {
			continue
		}

		if raw := field(row, cols.pubDate); raw != "" {
			d, err := parseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
			rec.PublicationDate = d
		}

		records = append(records, rec)
	}

	return records, nil
}

func mapColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{title: -1, authors: -1, pubDate: -1, abstract: -1, keywords: -1, link: -1}
	for i, name := range header {
		switch normalizeHeader(name) {
		case "title":
			cols.title = i
		case "authors", "author":
			cols.authors = i
		case "publicationdate", "date":
			cols.pubDate = i
		case "abstract":
			cols.abstract = i
		case "keywords":
			cols.keywords = i
		case "link", "url":
			cols.link = i
		}
	}
	if cols.title == -1 {
		return cols, fmt.Errorf("csv is missing a Title column")
	}
	if cols.link == -1 {
		return cols, fmt.Errorf("csv is missing a Link column")
	}
	return cols, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	return strings.TrimPrefix(name, "\uFEFF")
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDate(raw string) (*time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006"} {
		if d, err := time.Parse(layout, raw); err == nil {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("unrecognized publication date %q", raw)
}

// ToArticle converts a parsed record to the domain model. Chunk id is
// always zero: exports carry one row per publication.
func (r Record) ToArticle() domain.Article {
	return domain.Article{
		Title:           r.Title,
		Authors:         r.Authors,
		PublicationDate: r.PublicationDate,
		Abstract:        r.Abstract,
		Keywords:        r.Keywords,
		Link:            r.Link,
	}
}
