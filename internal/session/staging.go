package session

import (
	"sync"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Staging holds the transient hand-off slots used across the login flow:
// the article a user selected before being sent to login, and the path to
// land on afterwards. Each slot is single-consume: a read returns the
// value and clears it, so a second read after login cannot replay a stale
// selection.
type Staging struct {
	mu          sync.Mutex
	article     *domain.Article
	redirectTo  string
	hasRedirect bool
}

// NewStaging creates empty staging slots.
func NewStaging() *Staging {
	return &Staging{}
}

// StageArticle stores the selected article, replacing any prior value.
func (s *Staging) StageArticle(a domain.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := a
	s.article = &copied
}

// PeekArticle returns the staged article without clearing it. The reading
// view reads the selection this way so a page refresh does not lose it.
func (s *Staging) PeekArticle() (domain.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.article == nil {
		return domain.Article{}, false
	}
	return *s.article, true
}

// ConsumeArticle returns and clears the staged article. The second return
// is false when no article is staged.
func (s *Staging) ConsumeArticle() (domain.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.article == nil {
		return domain.Article{}, false
	}
	a := *s.article
	s.article = nil
	return a, true
}

// StageRedirect stores the post-login redirect target, replacing any prior
// value. An empty path is a valid target and still consumes as staged.
func (s *Staging) StageRedirect(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirectTo = path
	s.hasRedirect = true
}

// ConsumeRedirect returns and clears the staged redirect target. The
// second return is false when none is staged.
func (s *Staging) ConsumeRedirect() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRedirect {
		return "", false
	}
	path := s.redirectTo
	s.redirectTo = ""
	s.hasRedirect = false
	return path, true
}
