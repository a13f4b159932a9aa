package redis

import (
	"context"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/vote"
	"github.com/gravadigital/atelier-api/internal/domain/word"
)

// SessionRepository defines the methods to interact with session records.
type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, code string) (*session.Session, error)
	Exists(ctx context.Context, code string) (bool, error)
	GetPhase(ctx context.Context, code string) (session.Phase, error)
	SetPhase(ctx context.Context, code string, phase session.Phase) error
	Delete(ctx context.Context, code string) error
}

// ParticipantRepository defines the methods to interact with participants.
type ParticipantRepository interface {
	Add(ctx context.Context, code string, p *session.Participant) error
	GetAll(ctx context.Context, code string) ([]session.Participant, error)
	Count(ctx context.Context, code string) (int, error)
}

// WordRepository defines the methods to interact with the word aggregate.
type WordRepository interface {
	Increment(ctx context.Context, code string, tag word.Tag, normalized string) (int64, error)
	GetAll(ctx context.Context, code string) ([]word.Word, error)
}

// ProposalRepository defines the methods to interact with the proposal log.
type ProposalRepository interface {
	Append(ctx context.Context, code string, p *proposal.Proposal) error
	GetAll(ctx context.Context, code string) ([]proposal.Proposal, error)
	ReplaceAll(ctx context.Context, code string, proposals []proposal.Proposal) error
}

// ShortlistRepository defines the methods to interact with the shortlist
// snapshot.
type ShortlistRepository interface {
	Replace(ctx context.Context, code string, items []proposal.ShortlistItem) error
	GetAll(ctx context.Context, code string) ([]proposal.ShortlistItem, error)
}

// VoteRepository defines the methods to interact with vote tallies and voter
// sets.
type VoteRepository interface {
	// AddVoter reports whether the participant was newly recorded; false
	// means a ballot for this round already exists.
	AddVoter(ctx context.Context, code string, round vote.Round, participantID string) (bool, error)
	HasVoted(ctx context.Context, code string, round vote.Round, participantID string) (bool, error)
	IncrementTallies(ctx context.Context, code string, round vote.Round, proposalIDs []string) error
	Tallies(ctx context.Context, code string, round vote.Round) (map[string]int, error)
	VoterCount(ctx context.Context, code string, round vote.Round) (int, error)
}

// ResultsRepository defines the methods to interact with finalized results.
type ResultsRepository interface {
	// Put writes the record once; false means a finalized record already
	// exists and the write was discarded.
	Put(ctx context.Context, code string, results *vote.FinalResults) (bool, error)
	Get(ctx context.Context, code string) (*vote.FinalResults, error)
}

// Container bundles every repository over one shared store.
type Container struct {
	store *Store

	Sessions     SessionRepository
	Participants ParticipantRepository
	Words        WordRepository
	Proposals    ProposalRepository
	Shortlist    ShortlistRepository
	Votes        VoteRepository
	Results      ResultsRepository
}

// NewContainer wires all repositories around a store.
func NewContainer(store *Store) *Container {
	return &Container{
		store:        store,
		Sessions:     NewSessionRepository(store),
		Participants: NewParticipantRepository(store),
		Words:        NewWordRepository(store),
		Proposals:    NewProposalRepository(store),
		Shortlist:    NewShortlistRepository(store),
		Votes:        NewVoteRepository(store),
		Results:      NewResultsRepository(store),
	}
}

// Store exposes the underlying store for health checks.
func (c *Container) Store() *Store {
	return c.store
}
