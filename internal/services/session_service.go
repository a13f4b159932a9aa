package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
	"github.com/gravadigital/atelier-api/internal/validation"
)

// maxCodeAttempts bounds the retry loop against join-code collisions.
const maxCodeAttempts = 10

// SessionService handles the session lifecycle: creation, joining, phase
// transitions and admin authorization.
type SessionService struct {
	sessions     redis.SessionRepository
	participants redis.ParticipantRepository
	verifier     session.KeyVerifier
	log          *log.Logger
}

// NewSessionService creates a session service with the default key verifier.
func NewSessionService(sessions redis.SessionRepository, participants redis.ParticipantRepository) *SessionService {
	return &SessionService{
		sessions:     sessions,
		participants: participants,
		verifier:     session.NewKeyVerifier(),
		log:          logger.Service("session"),
	}
}

// WithKeyVerifier swaps the admin-key comparison strategy.
func (s *SessionService) WithKeyVerifier(v session.KeyVerifier) *SessionService {
	s.verifier = v
	return s
}

// Create opens a new workshop in the lobby phase. The join code is generated
// randomly and retried against the store until unique.
func (s *SessionService) Create(ctx context.Context, adminKey, gentile, communeName string) (*session.Session, error) {
	if err := validation.ValidateAdminKey(adminKey); err != nil {
		return nil, err
	}

	hash, err := s.verifier.Hash(adminKey)
	if err != nil {
		return nil, err
	}

	var code string
	for attempt := 0; ; attempt++ {
		if attempt >= maxCodeAttempts {
			return nil, workshop.Conflict("impossible de générer un code unique, réessayez")
		}
		code = session.GenerateCode()
		exists, err := s.sessions.Exists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		s.log.Warn("Session code collision, retrying", "code", code, "attempt", attempt+1)
	}

	sess := session.New(code, hash, strings.TrimSpace(gentile), strings.TrimSpace(communeName))
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info("Session created", "code", code, "commune", sess.CommuneName)
	return sess, nil
}

// Join registers a participant. Passing an existing participant id re-joins
// idempotently, overwriting name and join time.
func (s *SessionService) Join(ctx context.Context, code, name, participantID string, groupID int) (*session.Session, *session.Participant, error) {
	if err := validation.ValidateParticipantName(name); err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Get(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	p := session.NewParticipant(participantID, strings.TrimSpace(name), groupID)
	if err := s.participants.Add(ctx, code, p); err != nil {
		return nil, nil, err
	}

	s.log.Info("Participant joined", "code", code, "participant_id", p.ID)
	return sess, p, nil
}

// Info returns the session record with its authoritative phase and the
// participant count.
func (s *SessionService) Info(ctx context.Context, code string) (*session.Session, int, error) {
	sess, err := s.sessions.Get(ctx, code)
	if err != nil {
		return nil, 0, err
	}

	phase, err := s.sessions.GetPhase(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	sess.Phase = phase

	count, err := s.participants.Count(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	return sess, count, nil
}

// Participants lists everyone who joined the session.
func (s *SessionService) Participants(ctx context.Context, code string) ([]session.Participant, error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return nil, err
	}
	return s.participants.GetAll(ctx, code)
}

// Authorize checks the admin key against the stored hash and returns the
// session on success.
func (s *SessionService) Authorize(ctx context.Context, code, adminKey string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.verifier.Compare(sess.AdminKeyHash, adminKey); err != nil {
		s.log.Warn("Admin key rejected", "code", code)
		return nil, err
	}
	return sess, nil
}

// SetPhase moves the session to any of the six named phases. Jumps are
// unconstrained: the admin may revert or skip phases at will. This is a
// deliberate relaxation of a stricter transition graph.
func (s *SessionService) SetPhase(ctx context.Context, code string, phase session.Phase) error {
	if !phase.Valid() {
		return workshop.Invalid("phase invalide")
	}
	if err := s.sessions.SetPhase(ctx, code, phase); err != nil {
		return err
	}
	s.log.Info("Phase changed", "code", code, "phase", phase)
	return nil
}

// GetPhase reads the current session phase.
func (s *SessionService) GetPhase(ctx context.Context, code string) (session.Phase, error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return "", err
	}
	return s.sessions.GetPhase(ctx, code)
}

// Delete removes every key of the session namespace.
func (s *SessionService) Delete(ctx context.Context, code string) error {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return err
	}
	s.log.Info("Session deleted", "code", code)
	return s.sessions.Delete(ctx, code)
}
