package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/domain"
)

var _ datasources.CurationPersister = (*Store)(nil)

// Store persists curation state as a flat JSON document. Writes go through
// a temp file and rename so a crash mid-write cannot truncate the document.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(_ context.Context) (domain.CurationState, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.CurationState{Hidden: []string{}}, nil
	}
	if err != nil {
		return domain.CurationState{}, fmt.Errorf("reading curation file: %w", err)
	}

	var state domain.CurationState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.CurationState{}, fmt.Errorf("parsing curation file: %w", err)
	}
	if state.Hidden == nil {
		state.Hidden = []string{}
	}
	return state, nil
}

func (s *Store) Save(_ context.Context, state domain.CurationState) error {
	doc, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding curation state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating curation directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return fmt.Errorf("writing curation file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing curation file: %w", err)
	}
	return nil
}
