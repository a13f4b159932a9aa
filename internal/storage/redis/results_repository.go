package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gravadigital/atelier-api/internal/domain/vote"
)

type resultsRepository struct {
	store *Store
}

// NewResultsRepository creates a Redis-backed finalized-results repository.
func NewResultsRepository(store *Store) ResultsRepository {
	return &resultsRepository{store: store}
}

// Put writes the record with SETNX so a finalized workshop cannot be silently
// re-finalized. Returns false when a record already exists.
func (r *resultsRepository) Put(ctx context.Context, code string, results *vote.FinalResults) (bool, error) {
	data, err := json.Marshal(results)
	if err != nil {
		return false, fmt.Errorf("failed to marshal final results: %w", err)
	}
	return r.store.SetStringNX(ctx, KeysFor(code).FinalResults(), string(data))
}

// Get returns the finalized record, or nil when the workshop is still open.
func (r *resultsRepository) Get(ctx context.Context, code string) (*vote.FinalResults, error) {
	val, found, err := r.store.GetString(ctx, KeysFor(code).FinalResults())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var results vote.FinalResults
	if err := json.Unmarshal([]byte(val), &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal final results: %w", err)
	}
	return &results, nil
}
