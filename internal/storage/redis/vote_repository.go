package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gravadigital/atelier-api/internal/domain/vote"
)

type voteRepository struct {
	store *Store
}

// NewVoteRepository creates a Redis-backed vote repository.
func NewVoteRepository(store *Store) VoteRepository {
	return &voteRepository{store: store}
}

// AddVoter records the participant in the round's voter set. The SADD reply
// decides whether this is the first ballot, so two concurrent requests from
// the same participant cannot both win.
func (r *voteRepository) AddVoter(ctx context.Context, code string, round vote.Round, participantID string) (bool, error) {
	return r.store.SetAddOnce(ctx, KeysFor(code).Voters(int(round)), participantID)
}

func (r *voteRepository) HasVoted(ctx context.Context, code string, round vote.Round, participantID string) (bool, error) {
	return r.store.SetIsMember(ctx, KeysFor(code).Voters(int(round)), participantID)
}

func (r *voteRepository) IncrementTallies(ctx context.Context, code string, round vote.Round, proposalIDs []string) error {
	key := KeysFor(code).Votes(int(round))
	for _, id := range proposalIDs {
		if _, err := r.store.HashIncrBy(ctx, key, id, 1); err != nil {
			return err
		}
	}
	return nil
}

func (r *voteRepository) Tallies(ctx context.Context, code string, round vote.Round) (map[string]int, error) {
	data, err := r.store.HashGetAll(ctx, KeysFor(code).Votes(int(round)))
	if err != nil {
		return nil, err
	}

	tallies := make(map[string]int, len(data))
	for id, raw := range data {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt tally %q for proposal %s: %w", raw, id, err)
		}
		tallies[id] = count
	}
	return tallies, nil
}

func (r *voteRepository) VoterCount(ctx context.Context, code string, round vote.Round) (int, error) {
	return r.store.SetCard(ctx, KeysFor(code).Voters(int(round)))
}
