package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
)

type shortlistRepository struct {
	store *Store
}

// NewShortlistRepository creates a Redis-backed shortlist repository.
func NewShortlistRepository(store *Store) ShortlistRepository {
	return &shortlistRepository{store: store}
}

// Replace publishes a full shortlist snapshot. A second publish replaces the
// prior one entirely; there is no merge.
func (r *shortlistRepository) Replace(ctx context.Context, code string, items []proposal.ShortlistItem) error {
	values := make([]string, 0, len(items))
	for i := range items {
		data, err := json.Marshal(&items[i])
		if err != nil {
			return fmt.Errorf("failed to marshal shortlist item: %w", err)
		}
		values = append(values, string(data))
	}
	return r.store.ListReplace(ctx, KeysFor(code).Shortlist(), values)
}

func (r *shortlistRepository) GetAll(ctx context.Context, code string) ([]proposal.ShortlistItem, error) {
	raw, err := r.store.ListGetAll(ctx, KeysFor(code).Shortlist())
	if err != nil {
		return nil, err
	}

	items := make([]proposal.ShortlistItem, 0, len(raw))
	for _, data := range raw {
		var item proposal.ShortlistItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shortlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}
