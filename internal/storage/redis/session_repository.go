package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
	"github.com/gravadigital/atelier-api/internal/logger"
)

type sessionRepository struct {
	store *Store
	log   *log.Logger
}

// NewSessionRepository creates a Redis-backed session repository.
func NewSessionRepository(store *Store) SessionRepository {
	return &sessionRepository{
		store: store,
		log:   logger.Store(),
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *session.Session) error {
	keys := KeysFor(s.Code)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.store.SetString(ctx, keys.Session(), string(data)); err != nil {
		return err
	}
	if err := r.store.SetString(ctx, keys.Phase(), s.Phase.String()); err != nil {
		return err
	}

	r.log.Debug("Session created", "code", s.Code, "phase", s.Phase)
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, code string) (*session.Session, error) {
	val, found, err := r.store.GetString(ctx, KeysFor(code).Session())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, workshop.NotFound("session introuvable")
	}

	var s session.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", code, err)
	}
	return &s, nil
}

func (r *sessionRepository) Exists(ctx context.Context, code string) (bool, error) {
	return r.store.Exists(ctx, KeysFor(code).Session())
}

func (r *sessionRepository) GetPhase(ctx context.Context, code string) (session.Phase, error) {
	val, found, err := r.store.GetString(ctx, KeysFor(code).Phase())
	if err != nil {
		return "", err
	}
	if !found {
		// the info key may outlive the phase key only on manual edits;
		// treat an absent phase as the initial one
		return session.PhaseLobby, nil
	}

	phase, valid := session.PhaseFromString(val)
	if !valid {
		return "", fmt.Errorf("corrupt phase value %q for session %s", val, code)
	}
	return phase, nil
}

func (r *sessionRepository) SetPhase(ctx context.Context, code string, phase session.Phase) error {
	s, err := r.Get(ctx, code)
	if err != nil {
		return err
	}

	keys := KeysFor(code)
	if err := r.store.SetString(ctx, keys.Phase(), phase.String()); err != nil {
		return err
	}

	// mirror the phase into the session record
	s.Phase = phase
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.store.SetString(ctx, keys.Session(), string(data)); err != nil {
		return err
	}

	r.log.Debug("Phase updated", "code", code, "phase", phase)
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, code string) error {
	return r.store.Delete(ctx, KeysFor(code).All()...)
}
