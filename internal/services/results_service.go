package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/vote"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
)

// ResultsService freezes the workshop outcome into an immutable record.
type ResultsService struct {
	sessions  redis.SessionRepository
	words     redis.WordRepository
	proposals redis.ProposalRepository
	shortlist redis.ShortlistRepository
	votes     redis.VoteRepository
	results   redis.ResultsRepository
	log       *log.Logger
}

// NewResultsService creates a results service.
func NewResultsService(c *redis.Container) *ResultsService {
	return &ResultsService{
		sessions:  c.Sessions,
		words:     c.Words,
		proposals: c.Proposals,
		shortlist: c.Shortlist,
		votes:     c.Votes,
		results:   c.Results,
		log:       logger.Service("results"),
	}
}

// Finalize snapshots the three named shortlist items, the word cloud, the
// full proposal log and the session metadata, then forces the phase to done.
// The caller is responsible for having picked the winner; the ids are only
// resolved, never re-derived from tallies. A second finalize is rejected.
func (s *ResultsService) Finalize(ctx context.Context, code, top1ID, alt1ID, alt2ID string) (*vote.FinalResults, error) {
	sess, err := s.sessions.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if top1ID == "" || alt1ID == "" || alt2ID == "" {
		return nil, workshop.Invalid("top1, alt1 et alt2 requis")
	}

	items, err := s.shortlist.GetAll(ctx, code)
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
	enriched := vote.Enrich(items, talliesR1, talliesR2)

	byID := make(map[string]vote.EnrichedItem, len(enriched))
	for _, item := range enriched {
		byID[item.ID] = item
	}
	top1, ok := byID[top1ID]
	if !ok {
		return nil, workshop.NotFound("proposition %s introuvable dans la shortlist", top1ID)
	}
	alt1, ok := byID[alt1ID]
	if !ok {
		return nil, workshop.NotFound("proposition %s introuvable dans la shortlist", alt1ID)
	}
	alt2, ok := byID[alt2ID]
	if !ok {
		return nil, workshop.NotFound("proposition %s introuvable dans la shortlist", alt2ID)
	}

	words, err := s.words.GetAll(ctx, code)
	if err != nil {
		return nil, err
	}
	proposals, err := s.proposals.GetAll(ctx, code)
	if err != nil {
		return nil, err
	}

	record := vote.NewFinalResults(top1, alt1, alt2, words, proposals, sess)
	written, err := s.results.Put(ctx, code, record)
	if err != nil {
		return nil, err
	}
	if !written {
		return nil, workshop.Conflict("l'atelier est déjà finalisé")
	}

	if err := s.sessions.SetPhase(ctx, code, session.PhaseDone); err != nil {
		return nil, err
	}

	s.log.Info("Workshop finalized", "code", code, "top1", top1.Name)
	return record, nil
}

// Get returns the finalized record, or nil while the workshop is still open.
func (s *ResultsService) Get(ctx context.Context, code string) (*vote.FinalResults, error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return nil, err
	}
	return s.results.Get(ctx, code)
}
