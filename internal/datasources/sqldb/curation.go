package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/domain"
)

var _ datasources.CurationPersister = (*CurationRepository)(nil)

// CurationRepository persists curation state as a JSON document in a
// single-row table. The curation store serializes writers, so the
// update-then-insert fallback is race-free in practice.
type CurationRepository struct {
	db *sql.DB
}

func NewCurationRepository(db *sql.DB) *CurationRepository {
	return &CurationRepository{db: db}
}

func (r *CurationRepository) Load(ctx context.Context) (domain.CurationState, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, "SELECT doc FROM curation WHERE id = 1").Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CurationState{Hidden: []string{}}, nil
	}
	if err != nil {
		return domain.CurationState{}, fmt.Errorf("reading curation row: %w", err)
	}

	var state domain.CurationState
	if err := json.Unmarshal([]byte(doc), &state); err != nil {
		return domain.CurationState{}, fmt.Errorf("parsing curation document: %w", err)
	}
	if state.Hidden == nil {
		state.Hidden = []string{}
	}
	return state, nil
}

func (r *CurationRepository) Save(ctx context.Context, state domain.CurationState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding curation document: %w", err)
	}

	var exists int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM curation WHERE id = 1").Scan(&exists); err != nil {
		return fmt.Errorf("checking curation row: %w", err)
	}

	if exists == 0 {
		if _, err := r.db.ExecContext(ctx,
			"INSERT INTO curation (id, doc) VALUES (1, ?)", string(doc)); err != nil {
			return fmt.Errorf("inserting curation row: %w", err)
		}
		return nil
	}

	if _, err := r.db.ExecContext(ctx,
		"UPDATE curation SET doc = ? WHERE id = 1", string(doc)); err != nil {
		return fmt.Errorf("updating curation row: %w", err)
	}
	return nil
}
