package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/gravadigital/atelier-api/internal/domain/word"
)

type wordRepository struct {
	store *Store
}

// NewWordRepository creates a Redis-backed word aggregate repository.
func NewWordRepository(store *Store) WordRepository {
	return &wordRepository{store: store}
}

// Increment bumps the count for a (tag, normalized word) pair and returns the
// new count. Duplicate submissions just keep incrementing; nothing is ever
// deleted.
func (r *wordRepository) Increment(ctx context.Context, code string, tag word.Tag, normalized string) (int64, error) {
	return r.store.HashIncrBy(ctx, KeysFor(code).Words(), word.Field(tag, normalized), 1)
}

func (r *wordRepository) GetAll(ctx context.Context, code string) ([]word.Word, error) {
	data, err := r.store.HashGetAll(ctx, KeysFor(code).Words())
	if err != nil {
		return nil, err
	}

	// hash iteration order is random; fix the tie order by field name so
	// repeated reads stay stable
	fields := make([]string, 0, len(data))
	for field := range data {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	words := make([]word.Word, 0, len(fields))
	for _, field := range fields {
		count, err := strconv.Atoi(data[field])
		if err != nil {
			return nil, fmt.Errorf("corrupt word count %q for field %s: %w", data[field], field, err)
		}
		tag, w := word.ParseField(field)
		words = append(words, word.Word{Word: w, Tag: tag, Count: count})
	}

	word.SortByCount(words)
	return words, nil
}
