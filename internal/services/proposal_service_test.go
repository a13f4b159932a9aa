package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
	"github.com/gravadigital/atelier-api/internal/services"
)

func validProposal(participantID string) services.CreateProposalInput {
	return services.CreateProposalInput{
		Name:          "Ensemble pour Mouxy",
		Justification: "Un nom qui rassemble toute la commune",
		GroupID:       1,
		Form:          proposal.FormEnsemble,
		ParticipantID: participantID,
	}
}

func TestProposalService_Add(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)
	env.setPhase(t, code, session.PhaseNames)

	p, err := env.proposals.Add(ctx, code, validProposal("p1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.ID, "prop_"))
	assert.Equal(t, "Ensemble pour Mouxy", p.Name)
	assert.NotZero(t, p.CreatedAt)
	assert.False(t, p.Merged())
}

func TestProposalService_AddPhaseGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)
	env.setPhase(t, code, session.PhaseWords)

	_, err := env.proposals.Add(ctx, code, validProposal("p1"))
	require.Error(t, err)
	assert.Equal(t, workshop.KindPhase, workshop.KindOf(err))
}

func TestProposalService_AddValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)
	env.setPhase(t, code, session.PhaseNames)

	cases := []struct {
		name   string
		mutate func(*services.CreateProposalInput)
	}{
		{"missing participant", func(in *services.CreateProposalInput) { in.ParticipantID = "" }},
		{"short name", func(in *services.CreateProposalInput) { in.Name = "ab" }},
		{"long name", func(in *services.CreateProposalInput) { in.Name = strings.Repeat("a", 61) }},
		{"empty justification", func(in *services.CreateProposalInput) { in.Justification = "  " }},
		{"long justification", func(in *services.CreateProposalInput) { in.Justification = strings.Repeat("j", 141) }},
		{"group out of range", func(in *services.CreateProposalInput) { in.GroupID = 6 }},
		{"unknown form", func(in *services.CreateProposalInput) { in.Form = proposal.Form("slogan") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validProposal("p1")
			tc.mutate(&in)
			_, err := env.proposals.Add(ctx, code, in)
			require.Error(t, err)
			assert.Equal(t, workshop.KindValidation, workshop.KindOf(err))
		})
	}
}

func TestProposalService_AddCapPerParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)
	env.setPhase(t, code, session.PhaseNames)

	var last *proposal.Proposal
	for i := 0; i < proposal.MaxPerParticipant; i++ {
		p, err := env.proposals.Add(ctx, code, validProposal("p1"))
		require.NoError(t, err)
		last = p
	}

	_, err := env.proposals.Add(ctx, code, validProposal("p1"))
	require.Error(t, err)
	assert.Equal(t, workshop.KindValidation, workshop.KindOf(err))

	// another participant is unaffected
	_, err = env.proposals.Add(ctx, code, validProposal("p2"))
	require.NoError(t, err)

	// merging one frees a slot
	target := "prop_target"
	require.NoError(t, env.proposals.Update(ctx, code, last.ID, proposal.Patch{MergedInto: &target}))

	_, err = env.proposals.Add(ctx, code, validProposal("p1"))
	require.NoError(t, err)
}

func TestProposalService_GetHidesMerged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)
	env.setPhase(t, code, session.PhaseNames)

	a, err := env.proposals.Add(ctx, code, validProposal("p1"))
	require.NoError(t, err)
	b, err := env.proposals.Add(ctx, code, validProposal("p2"))
	require.NoError(t, err)

	require.NoError(t, env.proposals.Update(ctx, code, b.ID, proposal.Patch{MergedInto: &a.ID}))

	active, all, err := env.proposals.Get(ctx, code)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)
	require.Len(t, all, 2, "the full log keeps merged entries")
	assert.Equal(t, a.ID, all[1].MergedInto)
}

func TestProposalService_UpdatePreservesOrderAndFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.createSession(t)
	env.setPhase(t, code, session.PhaseNames)

	first, err := env.proposals.Add(ctx, code, validProposal("p1"))
	require.NoError(t, err)
	second, err := env.proposals.Add(ctx, code, validProposal("p2"))
	require.NoError(t, err)

	shortlisted := true
	require.NoError(t, env.proposals.Update(ctx, code, second.ID, proposal.Patch{IsShortlisted: &shortlisted}))

	_, all, err := env.proposals.Get(ctx, code)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "log order survives a patch rewrite")
	assert.Equal(t, second.ID, all[1].ID)
	assert.True(t, all[1].IsShortlisted)
	assert.Equal(t, second.Justification, all[1].Justification, "non-patched fields stay intact")
	assert.Equal(t, second.CreatedAt, all[1].CreatedAt)
}

func TestProposalService_UpdateUnknownID(t *testing.T) {
	env := newTestEnv(t)
	code := env.createSession(t)

	name := "Autre nom"
	err := env.proposals.Update(context.Background(), code, "prop_missing", proposal.Patch{Name: &name})
	require.Error(t, err)
	assert.Equal(t, workshop.KindNotFound, workshop.KindOf(err))
}
