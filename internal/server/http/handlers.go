package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Request body and query validation constants.
const (
	maxQueryLength     = 500
	maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies
)

// listArticles handles GET /articles.
// It returns the deduplicated catalog, optionally filtered by the q
// query parameter, together with row and article counts.
func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "query too long")
		return
	}

	articles, stats, err := s.catalog.List(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := listArticlesResponse{
		Articles: make([]articleResponse, len(articles)),
		Stats:    stats,
	}
	for i, a := range articles {
		resp.Articles[i] = domainArticleToResponse(a)
	}

	writeJSON(w, http.StatusOK, resp)
}

// selectArticle handles POST /articles/select.
// It stages the chosen article for the reading view and returns where the
// client should navigate: the reading view when a session exists, the
// login page otherwise.
func (s *Server) selectArticle(w http.ResponseWriter, r *http.Request) {
	var req selectArticleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Article.Title) == "" {
		writeError(w, http.StatusBadRequest, "article title is required")
		return
	}

	article := req.Article.toDomain()
	readPath := req.ReadPath
	if readPath == "" {
		readPath = "/read/" + domain.Slugify(article.Title)
	}
	if !strings.HasPrefix(readPath, "/") {
		writeError(w, http.StatusBadRequest, "read_path must be an absolute path")
		return
	}

	writeJSON(w, http.StatusOK, selectArticleResponse{
		RedirectTo: s.catalog.Select(article, readPath),
	})
}

// getArticle handles GET /articles/{slug}. The reading view uses it to
// load the article behind a title slug, whether it arrived there through
// selection or through a direct visit.
func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := s.catalog.Article(r.Context(), slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainArticleToResponse(article))
}

// topicGraph handles GET /topics/{topic}/graph.
func (s *Server) topicGraph(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")

	view, err := s.dashboard.KnowledgeGraph(r.Context(), topic)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// topicInsights handles GET /topics/{topic}/insights.
func (s *Server) topicInsights(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")

	insights, err := s.dashboard.InsightsFor(r.Context(), topic)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, insights)
}

// articleSummary handles POST /topics/{topic}/summary.
// A missing article is not an error: the response carries the fixed
// no-article copy so the reading view always has something to show.
func (s *Server) articleSummary(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")

	var req summaryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var article *domain.Article
	if req.Article != nil {
		a := req.Article.toDomain()
		article = &a
	}

	summary, err := s.dashboard.Summary(r.Context(), topic, article)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{Summary: summary})
}

// articleAsk handles POST /topics/{topic}/ask.
func (s *Server) articleAsk(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")

	var req askRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var article *domain.Article
	if req.Article != nil {
		a := req.Article.toDomain()
		article = &a
	}

	answer, err := s.dashboard.Ask(r.Context(), topic, article, req.Question)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

// decodeBody reads and unmarshals a JSON request body, writing a 400 error
// response on failure. Returns true on success.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	return true
}

// writeDomainError maps domain errors to appropriate HTTP status codes and
// writes a JSON error response. Internal error details are not leaked to
// clients; upstream error messages are already normalized for display.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrStaleResult):
		writeError(w, http.StatusConflict, "request superseded by a newer one")
	case errors.Is(err, domain.ErrMalformedPayload):
		writeError(w, http.StatusBadGateway, "upstream returned a malformed response")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, upstreamMessage(err))
	default:
		var apiErr *domain.ExternalAPIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, apiErr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// upstreamMessage extracts the normalized display message from an upstream
// error, falling back to a generic one.
func upstreamMessage(err error) string {
	var apiErr *domain.ExternalAPIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "service unavailable"
}
