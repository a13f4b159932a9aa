package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
)

func TestSessionService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.sessions.Create(ctx, testAdminKey, "Moussards", "Mouxy")
	require.NoError(t, err)

	assert.Len(t, sess.Code, 6)
	assert.Equal(t, session.PhaseLobby, sess.Phase)
	assert.Equal(t, "Moussards", sess.Gentile)
	assert.Equal(t, "Mouxy", sess.CommuneName)
	assert.NotEqual(t, testAdminKey, sess.AdminKeyHash, "admin key must never be stored in clear")

	phase, err := env.sessions.GetPhase(ctx, sess.Code)
	require.NoError(t, err)
	assert.Equal(t, session.PhaseLobby, phase)
}

func TestSessionService_CreateRejectsShortKey(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.Create(context.Background(), "abc", "", "")
	require.Error(t, err)
	assert.Equal(t, workshop.KindValidation, workshop.KindOf(err))
}

func TestSessionService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)

	sess, err := env.sessions.Create(context.Background(), testAdminKey, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Moussards", sess.Gentile)
	assert.Equal(t, "Mouxy", sess.CommuneName)
}

func TestSessionService_Join(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)

	sess, p, err := env.sessions.Join(ctx, code, "Claire", "", 2)
	require.NoError(t, err)
	assert.Equal(t, code, sess.Code)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Claire", p.Name)
	assert.Equal(t, 2, p.GroupID)

	// same id re-joins without creating a second participant
	_, again, err := env.sessions.Join(ctx, code, "Claire B", p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	_, count, err := env.sessions.Info(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSessionService_JoinUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.sessions.Join(context.Background(), "ZZZZZZ", "Claire", "", 1)
	require.Error(t, err)
	assert.Equal(t, workshop.KindNotFound, workshop.KindOf(err))
}

func TestSessionService_JoinEmptyName(t *testing.T) {
	env := newTestEnv(t)
	code := env.createSession(t)

	_, _, err := env.sessions.Join(context.Background(), code, "   ", "", 1)
	require.Error(t, err)
	assert.Equal(t, workshop.KindValidation, workshop.KindOf(err))
}

func TestSessionService_Authorize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)

	_, err := env.sessions.Authorize(ctx, code, testAdminKey)
	require.NoError(t, err)

	_, err = env.sessions.Authorize(ctx, code, "wrong")
	require.Error(t, err)
	assert.Equal(t, workshop.KindAuth, workshop.KindOf(err))
}

func TestSessionService_SetPhase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)

	for _, phase := range []session.Phase{
		session.PhaseWords,
		session.PhaseNames,
		session.PhaseVote1,
		session.PhaseVote2,
		session.PhaseDone,
		session.PhaseLobby, // reverting is allowed
	} {
		require.NoError(t, env.sessions.SetPhase(ctx, code, phase))

		got, err := env.sessions.GetPhase(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, phase, got)
	}

	err := env.sessions.SetPhase(ctx, code, session.Phase("entracte"))
	require.Error(t, err)
	assert.Equal(t, workshop.KindValidation, workshop.KindOf(err))
}

func TestSessionService_InfoReflectsPhaseKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)

	env.setPhase(t, code, session.PhaseVote1)

	sess, _, err := env.sessions.Info(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, session.PhaseVote1, sess.Phase)
}

func TestSessionService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)

	require.NoError(t, env.sessions.Delete(ctx, code))

	_, _, err := env.sessions.Info(ctx, code)
	require.Error(t, err)
	assert.Equal(t, workshop.KindNotFound, workshop.KindOf(err))
}
