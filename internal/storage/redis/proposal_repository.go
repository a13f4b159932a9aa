package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
)

type proposalRepository struct {
	store *Store
}

// NewProposalRepository creates a Redis-backed proposal log repository.
func NewProposalRepository(store *Store) ProposalRepository {
	return &proposalRepository{store: store}
}

func (r *proposalRepository) Append(ctx context.Context, code string, p *proposal.Proposal) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal: %w", err)
	}
	return r.store.ListAppend(ctx, KeysFor(code).Proposals(), string(data))
}

func (r *proposalRepository) GetAll(ctx context.Context, code string) ([]proposal.Proposal, error) {
	items, err := r.store.ListGetAll(ctx, KeysFor(code).Proposals())
	if err != nil {
		return nil, err
	}

	proposals := make([]proposal.Proposal, 0, len(items))
	for _, raw := range items {
		var p proposal.Proposal
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal proposal: %w", err)
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// ReplaceAll rewrites the full log in one transaction, preserving order. Used
// for in-place admin patches of individual entries.
func (r *proposalRepository) ReplaceAll(ctx context.Context, code string, proposals []proposal.Proposal) error {
	values := make([]string, 0, len(proposals))
	for i := range proposals {
		data, err := json.Marshal(&proposals[i])
		if err != nil {
			return fmt.Errorf("failed to marshal proposal: %w", err)
		}
		values = append(values, string(data))
	}
	return r.store.ListReplace(ctx, KeysFor(code).Proposals(), values)
}
