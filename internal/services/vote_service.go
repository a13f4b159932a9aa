package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/vote"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
)

// VoteService manages the shortlist snapshot and both voting rounds.
type VoteService struct {
	sessions  redis.SessionRepository
	shortlist redis.ShortlistRepository
	votes     redis.VoteRepository
	log       *log.Logger
}

// NewVoteService creates a vote service.
func NewVoteService(sessions redis.SessionRepository, shortlist redis.ShortlistRepository, votes redis.VoteRepository) *VoteService {
	return &VoteService{
		sessions:  sessions,
		shortlist: shortlist,
		votes:     votes,
		log:       logger.Service("vote"),
	}
}

// PublishShortlist replaces the whole shortlist with a snapshot of the given
// items. Only the canonical proposal fields are copied; votes and final
// annotations never ride along from the client.
func (s *VoteService) PublishShortlist(ctx context.Context, code string, items []proposal.ShortlistItem) error {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return err
	}
	if len(items) == 0 {
		return workshop.Invalid("liste de propositions requise")
	}

	snapshot := make([]proposal.ShortlistItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || item.Name == "" {
			return workshop.Invalid("chaque proposition doit avoir un id et un nom")
		}
		snapshot = append(snapshot, proposal.ShortlistItem{
			ID:            item.ID,
			Name:          item.Name,
			Justification: item.Justification,
			Subtitle:      item.Subtitle,
			GroupID:       item.GroupID,
			Form:          item.Form,
		})
	}

	if err := s.shortlist.Replace(ctx, code, snapshot); err != nil {
		return err
	}

	s.log.Info("Shortlist published", "code", code, "count", len(snapshot))
	return nil
}

// UpdateShortlistItem patches one snapshot item in place without touching the
// vote tallies.
func (s *VoteService) UpdateShortlistItem(ctx context.Context, code, itemID string, patch proposal.ItemPatch) error {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return err
	}

	items, err := s.shortlist.GetAll(ctx, code)
	if err != nil {
		return err
	}

	found := false
	for i := range items {
		if items[i].ID == itemID {
			patch.Apply(&items[i])
			found = true
			break
		}
	}
	if !found {
		return workshop.NotFound("proposition introuvable dans la shortlist")
	}

	return s.shortlist.Replace(ctx, code, items)
}

// Shortlist returns the published snapshot without tallies.
func (s *VoteService) Shortlist(ctx context.Context, code string) ([]proposal.ShortlistItem, error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return nil, err
	}
	return s.shortlist.GetAll(ctx, code)
}

// EnrichedShortlist joins the snapshot with both rounds' tallies at read
// time. Counts are never denormalized onto the stored items.
func (s *VoteService) EnrichedShortlist(ctx context.Context, code string) ([]vote.EnrichedItem, error) {
	items, err := s.Shortlist(ctx, code)
	if err != nil {
		return nil, err
	}
	talliesR1, err := s.votes.Tallies(ctx, code, vote.Round1)
	if err != nil {
		return nil, err
	}
	talliesR2, err := s.votes.Tallies(ctx, code, vote.Round2)
	if err != nil {
		return nil, err
	}
	return vote.Enrich(items, talliesR1, talliesR2), nil
}

// Record casts a ballot. Exactly-once per participant per round: the voter
// set add decides atomically whether the ballot counts, and only a winning
// add increments tallies.
func (s *VoteService) Record(ctx context.Context, code string, round vote.Round, participantID string, proposalIDs []string) error {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return err
	}
	if !round.Valid() {
		return workshop.Invalid("round invalide (1 ou 2)")
	}
	if participantID == "" {
		return workshop.Invalid("participant requis")
	}

	phase, err := s.sessions.GetPhase(ctx, code)
	if err != nil {
		return err
	}
	if phase != round.Phase() {
		return workshop.PhaseClosed("le vote du tour %d n'est pas ouvert", round)
	}

	if len(proposalIDs) == 0 {
		return workshop.Invalid("vous devez voter pour au moins une proposition")
	}
	if len(proposalIDs) > round.MaxChoices() {
		return workshop.Invalid("maximum %d vote(s) pour le tour %d", round.MaxChoices(), round)
	}
	seen := make(map[string]bool, len(proposalIDs))
	for _, id := range proposalIDs {
		if seen[id] {
			return workshop.Invalid("proposition votée en double")
		}
		seen[id] = true
	}

	if err := s.checkEligibility(ctx, code, round, proposalIDs); err != nil {
		return err
	}

	added, err := s.votes.AddVoter(ctx, code, round, participantID)
	if err != nil {
		return err
	}
	if !added {
		return workshop.AlreadyVoted("vous avez déjà voté pour ce tour")
	}

	if err := s.votes.IncrementTallies(ctx, code, round, proposalIDs); err != nil {
		return err
	}

	s.log.Info("Ballot recorded", "code", code, "round", round, "participant_id", participantID, "choices", len(proposalIDs))
	return nil
}

// checkEligibility verifies every ballot id against the round's eligible set:
// the published shortlist for round 1, the round-1 top 3 for round 2. The top
// 3 is computed at vote time; round-1 tallies are frozen by the phase gate
// once vote2 opens.
func (s *VoteService) checkEligibility(ctx context.Context, code string, round vote.Round, proposalIDs []string) error {
	items, err := s.shortlist.GetAll(ctx, code)
	if err != nil {
		return err
	}

	eligible := make(map[string]bool, len(items))
	if round == vote.Round2 {
		talliesR1, err := s.votes.Tallies(ctx, code, vote.Round1)
		if err != nil {
			return err
		}
		for _, id := range vote.TopByRound1(items, talliesR1) {
			eligible[id] = true
		}
	} else {
		for _, item := range items {
			eligible[item.ID] = true
		}
	}

	for _, id := range proposalIDs {
		if !eligible[id] {
			if round == vote.Round2 {
				return workshop.Ineligible("vote invalide - proposition hors du Top 3")
			}
			return workshop.Ineligible("vote invalide - proposition non shortlistée")
		}
	}
	return nil
}

// Results returns the round's tally mapping; absent ids count zero.
func (s *VoteService) Results(ctx context.Context, code string, round vote.Round) (map[string]int, error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return nil, err
	}
	if !round.Valid() {
		return nil, workshop.Invalid("round invalide (1 ou 2)")
	}
	return s.votes.Tallies(ctx, code, round)
}

// VoterCount returns how many ballots were cast in the round.
func (s *VoteService) VoterCount(ctx context.Context, code string, round vote.Round) (int, error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return 0, err
	}
	return s.votes.VoterCount(ctx, code, round)
}

// VoteStatus is the polling payload for the voting pages.
type VoteStatus struct {
	Phase        session.Phase       `json:"phase"`
	Shortlist    []vote.EnrichedItem `json:"shortlist"`
	HasVotedR1   bool                `json:"hasVotedR1"`
	HasVotedR2   bool                `json:"hasVotedR2"`
	VoterCountR1 int                 `json:"voterCountR1"`
	VoterCountR2 int                 `json:"voterCountR2"`
}

// Status assembles the vote state in one read: phase, enriched shortlist,
// whether the given participant voted each round, and ballot counts.
func (s *VoteService) Status(ctx context.Context, code, participantID string) (*VoteStatus, error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return nil, err
	}

	phase, err := s.sessions.GetPhase(ctx, code)
	if err != nil {
		return nil, err
	}

	shortlist, err := s.EnrichedShortlist(ctx, code)
	if err != nil {
		return nil, err
	}

	status := &VoteStatus{
		Phase:     phase,
		Shortlist: shortlist,
	}

	if participantID != "" {
		if status.HasVotedR1, err = s.votes.HasVoted(ctx, code, vote.Round1, participantID); err != nil {
			return nil, err
		}
		if status.HasVotedR2, err = s.votes.HasVoted(ctx, code, vote.Round2, participantID); err != nil {
			return nil, err
		}
	}

	if status.VoterCountR1, err = s.votes.VoterCount(ctx, code, vote.Round1); err != nil {
		return nil, err
	}
	if status.VoterCountR2, err = s.votes.VoterCount(ctx, code, vote.Round2); err != nil {
		return nil, err
	}

	return status, nil
}

// RoundFromInt parses a client-supplied round number.
func RoundFromInt(n int) (vote.Round, error) {
	r := vote.Round(n)
	if !r.Valid() {
		return 0, workshop.Invalid("round invalide (1 ou 2)")
	}
	return r, nil
}
