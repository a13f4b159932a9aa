package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gravadigital/atelier-api/internal/domain/session"
)

type participantRepository struct {
	store *Store
}

// NewParticipantRepository creates a Redis-backed participant repository.
func NewParticipantRepository(store *Store) ParticipantRepository {
	return &participantRepository{store: store}
}

// Add registers a participant. Re-join with the same id overwrites the hash
// field, so the operation is idempotent by id.
func (r *participantRepository) Add(ctx context.Context, code string, p *session.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal participant: %w", err)
	}
	return r.store.HashSet(ctx, KeysFor(code).Participants(), p.ID, string(data))
}

func (r *participantRepository) GetAll(ctx context.Context, code string) ([]session.Participant, error) {
	data, err := r.store.HashGetAll(ctx, KeysFor(code).Participants())
	if err != nil {
		return nil, err
	}

	participants := make([]session.Participant, 0, len(data))
	for id, raw := range data {
		var p session.Participant
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal participant %s: %w", id, err)
		}
		participants = append(participants, p)
	}
	return participants, nil
}

func (r *participantRepository) Count(ctx context.Context, code string) (int, error) {
	return r.store.HashLen(ctx, KeysFor(code).Participants())
}
