// Package services holds the workshop engine: phase gating, validation and
// tallying rules on top of the session store repositories.
package services

import (
	"context"

	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
)

// ensureSession fails with a not-found error when the session is absent or
// expired.
func ensureSession(ctx context.Context, sessions redis.SessionRepository, code string) error {
	exists, err := sessions.Exists(ctx, code)
	if err != nil {
		return err
	}
	if !exists {
		return workshop.NotFound("session introuvable")
	}
	return nil
}

// requirePhase gates a mutation on the single phase in which it is legal.
func requirePhase(ctx context.Context, sessions redis.SessionRepository, code string, required session.Phase, message string) error {
	if err := ensureSession(ctx, sessions, code); err != nil {
		return err
	}
	phase, err := sessions.GetPhase(ctx, code)
	if err != nil {
		return err
	}
	if phase != required {
		return workshop.PhaseClosed("%s", message)
	}
	return nil
}
