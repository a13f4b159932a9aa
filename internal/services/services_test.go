package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/services"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
)

const testAdminKey = "abcd"

// testEnv wires every service against one miniredis instance.
type testEnv struct {
	mr        *miniredis.Miniredis
	container *redis.Container
	sessions  *services.SessionService
	words     *services.WordService
	proposals *services.ProposalService
	votes     *services.VoteService
	results   *services.ResultsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	container := redis.NewContainer(redis.NewFromClient(client, 8*time.Hour))

	return &testEnv{
		mr:        mr,
		container: container,
		sessions: services.NewSessionService(container.Sessions, container.Participants).
			WithKeyVerifier(session.BcryptKeyVerifier{Cost: bcrypt.MinCost}),
		words:     services.NewWordService(container.Sessions, container.Words),
		proposals: services.NewProposalService(container.Sessions, container.Proposals),
		votes:     services.NewVoteService(container.Sessions, container.Shortlist, container.Votes),
		results:   services.NewResultsService(container),
	}
}

// createSession opens a workshop and returns its join code.
func (env *testEnv) createSession(t *testing.T) string {
	t.Helper()

	sess, err := env.sessions.Create(context.Background(), testAdminKey, "Moussards", "Mouxy")
	require.NoError(t, err)
	return sess.Code
}

// setPhase moves the session without going through the admin endpoint.
func (env *testEnv) setPhase(t *testing.T, code string, phase session.Phase) {
	t.Helper()
	require.NoError(t, env.sessions.SetPhase(context.Background(), code, phase))
}
