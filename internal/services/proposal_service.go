package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
	"github.com/gravadigital/atelier-api/internal/validation"
)

// ProposalService owns the append-only proposal log and its admin
// annotations.
type ProposalService struct {
	sessions  redis.SessionRepository
	proposals redis.ProposalRepository
	log       *log.Logger
}

// NewProposalService creates a proposal service.
func NewProposalService(sessions redis.SessionRepository, proposals redis.ProposalRepository) *ProposalService {
	return &ProposalService{
		sessions:  sessions,
		proposals: proposals,
		log:       logger.Service("proposal"),
	}
}

// CreateProposalInput carries a participant's name proposal.
type CreateProposalInput struct {
	Name          string
	Justification string
	Subtitle      string
	GroupID       int
	Form          proposal.Form
	ParticipantID string
}

// Add validates and appends a proposal during phase 2. Each participant may
// hold at most proposal.MaxPerParticipant active proposals.
func (s *ProposalService) Add(ctx context.Context, code string, input CreateProposalInput) (*proposal.Proposal, error) {
	if err := requirePhase(ctx, s.sessions, code, session.PhaseNames, "les propositions ne peuvent être ajoutées qu'en phase 2"); err != nil {
		return nil, err
	}
	if input.ParticipantID == "" {
		return nil, workshop.Invalid("participant requis")
	}
	if err := validation.ValidateForm(input.Form); err != nil {
		return nil, err
	}
	if err := validation.ValidateGroupID(input.GroupID); err != nil {
		return nil, err
	}
	if err := validation.ValidateProposalName(input.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateJustification(input.Justification); err != nil {
		return nil, err
	}

	all, err := s.proposals.GetAll(ctx, code)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, p := range all {
		if p.ParticipantID == input.ParticipantID && !p.Merged() {
			active++
		}
	}
	if active >= proposal.MaxPerParticipant {
		return nil, workshop.Invalid("maximum %d propositions par participant", proposal.MaxPerParticipant)
	}

	p := proposal.New(
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.Justification),
		strings.TrimSpace(input.Subtitle),
		input.GroupID,
		input.Form,
		input.ParticipantID,
	)
	if err := s.proposals.Append(ctx, code, p); err != nil {
		return nil, err
	}

	s.log.Info("Proposal added", "code", code, "proposal_id", p.ID, "group", p.GroupID, "form", p.Form)
	return p, nil
}

// Get returns the participant-facing list (merged entries hidden) plus the
// full log for audit and export.
func (s *ProposalService) Get(ctx context.Context, code string) (active, all []proposal.Proposal, err error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return nil, nil, err
	}

	all, err = s.proposals.GetAll(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	active = make([]proposal.Proposal, 0, len(all))
	for _, p := range all {
		if !p.Merged() {
			active = append(active, p)
		}
	}
	return active, all, nil
}

// Update patches one log entry in place, preserving order and every
// non-patched field. Admin-only; authorization happens at the request layer.
func (s *ProposalService) Update(ctx context.Context, code, proposalID string, patch proposal.Patch) error {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return err
	}

	all, err := s.proposals.GetAll(ctx, code)
	if err != nil {
		return err
	}

	found := false
	for i := range all {
		if all[i].ID == proposalID {
			patch.Apply(&all[i])
			found = true
			break
		}
	}
	if !found {
		return workshop.NotFound("proposition introuvable")
	}

	if err := s.proposals.ReplaceAll(ctx, code, all); err != nil {
		return err
	}

	s.log.Info("Proposal patched", "code", code, "proposal_id", proposalID)
	return nil
}
