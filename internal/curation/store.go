package curation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/domain"
)

// Field length caps applied to pin submissions before storage.
const (
	maxTitleLen       = 500
	maxSourceLen      = 200
	maxAuthorLen      = 200
	maxDescriptionLen = 2000
	maxURLLen         = 2000
	maxImageLen       = 2000
	maxNoteLen        = 500
	minReadTime       = 1
	maxReadTime       = 60
)

// ValidationError marks rejected input, as opposed to persistence failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Store holds editorial state in memory and persists every mutation
// synchronously before acknowledging it. The in-memory copy only commits
// after the durable write succeeds, so a failed write leaves both sides
// unchanged and the caller sees the error.
type Store struct {
	persist datasources.CurationPersister

	mu     sync.Mutex
	hidden map[string]struct{}
	pinned []domain.PinnedArticle

	now func() time.Time
}

// NewStore loads durable state and returns a ready store.
func NewStore(ctx context.Context, persist datasources.CurationPersister) (*Store, error) {
	state, err := persist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading curation state: %w", err)
	}

	hidden := make(map[string]struct{}, len(state.Hidden))
	for _, u := range state.Hidden {
		hidden[u] = struct{}{}
	}

	return &Store{
		persist: persist,
		hidden:  hidden,
		pinned:  state.Pinned,
		now:     time.Now,
	}, nil
}

// State returns a snapshot safe for concurrent use; hidden URLs are sorted
// for deterministic output.
func (s *Store) State() domain.CurationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.CurationState {
	hidden := make([]string, 0, len(s.hidden))
	for u := range s.hidden {
		hidden = append(hidden, u)
	}
	sort.Strings(hidden)

	pinned := make([]domain.PinnedArticle, len(s.pinned))
	copy(pinned, s.pinned)

	return domain.CurationState{Hidden: hidden, Pinned: pinned}
}

// Hide adds url to the hidden set. Idempotent; hiding an already hidden URL
// succeeds without a durable write.
func (s *Store) Hide(ctx context.Context, url string) error {
	if !domain.ValidArticleURL(url) {
		return &ValidationError{Message: fmt.Sprintf("invalid article URL [%s]", url)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hidden[url]; ok {
		return nil
	}

	s.hidden[url] = struct{}{}
	if err := s.persist.Save(ctx, s.snapshotLocked()); err != nil {
		delete(s.hidden, url)
		return fmt.Errorf("persisting curation state: %w", err)
	}
	return nil
}

// Unhide removes url from the hidden set. Idempotent.
func (s *Store) Unhide(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hidden[url]; !ok {
		return nil
	}

	delete(s.hidden, url)
	if err := s.persist.Save(ctx, s.snapshotLocked()); err != nil {
		s.hidden[url] = struct{}{}
		return fmt.Errorf("persisting curation state: %w", err)
	}
	return nil
}

// Pin inserts the article at the front of the pinned list. Pinning an
// already pinned URL is a no-op: the first pin wins and later submissions do
// not update note or metadata.
func (s *Store) Pin(ctx context.Context, p domain.PinnedArticle) error {
	if !domain.ValidArticleURL(p.URL) {
		return &ValidationError{Message: fmt.Sprintf("invalid article URL [%s]", p.URL)}
	}

	p.Title = truncate(p.Title, maxTitleLen)
	p.Source = truncate(p.Source, maxSourceLen)
	p.Author = truncate(p.Author, maxAuthorLen)
	p.Description = truncate(p.Description, maxDescriptionLen)
	p.URL = truncate(p.URL, maxURLLen)
	p.Image = truncate(p.Image, maxImageLen)
	p.Note = truncate(p.Note, maxNoteLen)
	p.ReadTime = clamp(p.ReadTime, minReadTime, maxReadTime)
	if p.Category == "" {
		p.Category = domain.CategoryGeneral
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.pinned {
		if existing.URL == p.URL {
			return nil
		}
	}

	p.PinnedAt = s.now()
	s.pinned = append([]domain.PinnedArticle{p}, s.pinned...)
	if err := s.persist.Save(ctx, s.snapshotLocked()); err != nil {
		s.pinned = s.pinned[1:]
		return fmt.Errorf("persisting curation state: %w", err)
	}
	return nil
}

// Unpin removes the pinned record for url. Idempotent.
func (s *Store) Unpin(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.pinned {
		if p.URL == url {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := s.pinned[idx]
	s.pinned = append(s.pinned[:idx:idx], s.pinned[idx+1:]...)
	if err := s.persist.Save(ctx, s.snapshotLocked()); err != nil {
		restored := make([]domain.PinnedArticle, 0, len(s.pinned)+1)
		restored = append(restored, s.pinned[:idx]...)
		restored = append(restored, removed)
		restored = append(restored, s.pinned[idx:]...)
		s.pinned = restored
		return fmt.Errorf("persisting curation state: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
