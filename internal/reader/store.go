// Package reader holds the article currently shown to the user. Loads run in
// the background and only the most recent request may publish its result.
package reader

import (
	"sync"

	"github.com/hyperifyio/gohabr/internal/habr"
)

// Ticket identifies one load request.
type Ticket struct {
	Gen       uint64
	ArticleID string
	// RequestID correlates log lines of a single load.
	RequestID string
}

// Store is safe for concurrent use. Readers never observe a partially
// published article.
type Store struct {
	mu        sync.RWMutex
	gen       uint64
	requested string
	published uint64
	article   *habr.Article
}

// Begin starts a new request for id and supersedes every earlier ticket.
func (s *Store) Begin(id string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.requested = id
	return Ticket{Gen: s.gen, ArticleID: id}
}

// Publish swaps a in if t is still the latest request. It reports false when
// the result is stale and was discarded.
func (s *Store) Publish(t Ticket, a habr.Article) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Gen != s.gen {
		return false
	}
	s.article = &a
	s.published = t.Gen
	return true
}

// Current returns the published article, if any.
func (s *Store) Current() (habr.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.article == nil {
		return habr.Article{}, false
	}
	return *s.article, true
}

// IsLatest reports whether t has not been superseded.
func (s *Store) IsLatest(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return t.Gen == s.gen
}

// Requested returns the id of the latest request.
func (s *Store) Requested() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requested
}

// Loading reports whether the latest request has not been published yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen != 0 && s.published != s.gen
}

// Clear drops the published article and invalidates outstanding tickets.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.published = s.gen
	s.requested = ""
	s.article = nil
}
