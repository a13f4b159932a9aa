package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/atelier-api/internal/config"
	"github.com/gravadigital/atelier-api/internal/server"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
)

const adminKey = "abcd"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{}
	cfg.Server.Port = "8080"
	cfg.Server.GinMode = "release"
	cfg.Session.TTL = 8 * time.Hour
	cfg.CORS.AllowOrigins = "*"
	cfg.CORS.AllowMethods = "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS"
	cfg.CORS.AllowHeaders = "Origin,Content-Length,Content-Type,X-Admin-Key"

	container := redis.NewContainer(redis.NewFromClient(client, cfg.Session.TTL))
	return server.New(cfg, container).Router()
}

// doJSON performs a request with an optional JSON body and admin key, and
// decodes the response body into a generic map.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, key string) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	}
	return rec.Code, decoded
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected a data envelope, got %v", body)
	return d
}

func adminAction(t *testing.T, router *gin.Engine, code, action string, payload any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return doJSON(t, router, http.MethodPost, "/api/sessions/"+code+"/admin", map[string]any{
		"action": action,
		"data":   json.RawMessage(raw),
	}, adminKey)
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestCreateSessionValidation(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{"adminKey": "abc"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestSessionNotFound(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodGet, "/api/sessions/ZZZZZZ", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, false, body["success"])
}

func TestAdminRequiresKey(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{"adminKey": adminKey}, "")
	require.Equal(t, http.StatusCreated, status)
	code := data(t, body)["code"].(string)

	status, _ = doJSON(t, router, http.MethodGet, "/api/sessions/"+code+"/admin", nil, "wrong")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, router, http.MethodGet, "/api/sessions/"+code+"/admin", nil, adminKey)
	assert.Equal(t, http.StatusOK, status)
}

// TestWorkshopLifecycle drives a complete workshop through the public API:
// create, join, brainstorm, propose, shortlist, two voting rounds, finalize.
func TestWorkshopLifecycle(t *testing.T) {
	router := newTestRouter(t)

	// create
	status, body := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{
		"adminKey":    adminKey,
		"gentile":     "Moussards",
		"communeName": "Mouxy",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	code := data(t, body)["code"].(string)
	require.Len(t, code, 6)
	assert.Equal(t, "lobby", data(t, body)["phase"])

	// join two participants
	join := func(name string) string {
		status, body := doJSON(t, router, http.MethodPost, "/api/sessions/join", map[string]any{
			"code":            code,
			"participantName": name,
			"groupId":         1,
		}, "")
		require.Equal(t, http.StatusOK, status)
		return data(t, body)["participantId"].(string)
	}
	alice := join("Alice")
	bob := join("Bob")
	require.NotEqual(t, alice, bob)

	status, body = doJSON(t, router, http.MethodGet, "/api/sessions/"+code, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), data(t, body)["participantCount"])

	// phase 1: words
	status, _ = adminAction(t, router, code, "setPhase", map[string]any{"phase": "phase1"})
	require.Equal(t, http.StatusOK, status)

	addWord := func(w, tag string) map[string]any {
		status, body := doJSON(t, router, http.MethodPost, "/api/sessions/"+code+"/words", map[string]any{
			"word": w,
			"tag":  tag,
		}, "")
		require.Equal(t, http.StatusOK, status)
		return data(t, body)
	}
	first := addWord("Solidarité", "Rassembler")
	assert.Equal(t, float64(1), first["count"])
	second := addWord("solidarité", "Rassembler")
	assert.Equal(t, float64(2), second["count"], "same word aggregates")

	// words are rejected outside phase 1
	status, _ = adminAction(t, router, code, "setPhase", map[string]any{"phase": "phase2"})
	require.Equal(t, http.StatusOK, status)
	status, body = doJSON(t, router, http.MethodPost, "/api/sessions/"+code+"/words", map[string]any{
		"word": "tard", "tag": "Autre",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "PHASE_CLOSED", body["code"])

	// phase 2: proposals
	propose := func(name, participant string) string {
		status, body := doJSON(t, router, http.MethodPost, "/api/sessions/"+code+"/proposals", map[string]any{
			"name":          name,
			"justification": "un nom qui rassemble",
			"groupId":       1,
			"form":          "ensemble",
			"participantId": participant,
		}, "")
		require.Equal(t, http.StatusCreated, status)
		return data(t, body)["id"].(string)
	}
	propA := propose("Ensemble pour Mouxy", alice)
	propB := propose("Mouxy en commun", bob)
	propC := propose("Élan pour Mouxy", bob)

	// admin publishes the shortlist
	status, _ = adminAction(t, router, code, "publishShortlist", map[string]any{
		"items": []map[string]any{
			{"id": propA, "name": "Ensemble pour Mouxy", "justification": "un nom qui rassemble", "groupId": 1, "form": "ensemble"},
			{"id": propB, "name": "Mouxy en commun", "justification": "un nom qui rassemble", "groupId": 1, "form": "commun"},
			{"id": propC, "name": "Élan pour Mouxy", "justification": "un nom qui rassemble", "groupId": 1, "form": "mouvement"},
		},
	})
	require.Equal(t, http.StatusOK, status)

	// round 1
	status, _ = adminAction(t, router, code, "setPhase", map[string]any{"phase": "vote1"})
	require.Equal(t, http.StatusOK, status)

	cast := func(participant string, round int, ids ...string) (int, map[string]any) {
		return doJSON(t, router, http.MethodPost, "/api/sessions/"+code+"/vote", map[string]any{
			"participantId": participant,
			"proposalIds":   ids,
			"round":         round,
		}, "")
	}
	status, _ = cast(alice, 1, propA, propB)
	require.Equal(t, http.StatusOK, status)
	status, _ = cast(bob, 1, propA)
	require.Equal(t, http.StatusOK, status)

	// double vote conflicts, tallies untouched
	status, body = cast(alice, 1, propC)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_VOTED", body["code"])

	status, body = doJSON(t, router, http.MethodGet, "/api/sessions/"+code+"/vote?participantId="+alice, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["hasVotedR1"])
	assert.Equal(t, float64(2), body["voterCountR1"])

	// round 2
	status, _ = adminAction(t, router, code, "setPhase", map[string]any{"phase": "vote2"})
	require.Equal(t, http.StatusOK, status)

	status, _ = cast(alice, 2, propA)
	require.Equal(t, http.StatusOK, status)
	status, _ = cast(bob, 2, propB)
	require.Equal(t, http.StatusOK, status)

	// results are not available before finalize
	status, _ = doJSON(t, router, http.MethodGet, "/api/sessions/"+code+"/results", nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	// finalize
	status, body = adminAction(t, router, code, "finalize", map[string]any{
		"top1": propA, "alt1": propB, "alt2": propC,
	})
	require.Equal(t, http.StatusOK, status)
	record := data(t, body)
	top1 := record["top1"].(map[string]any)
	assert.Equal(t, "Ensemble pour Mouxy", top1["name"])
	assert.Equal(t, float64(2), top1["votesR1"])
	assert.Equal(t, float64(1), top1["votesR2"])

	// a second finalize conflicts
	status, body = adminAction(t, router, code, "finalize", map[string]any{
		"top1": propB, "alt1": propA, "alt2": propC,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	// session is done, results are public
	status, body = doJSON(t, router, http.MethodGet, "/api/sessions/"+code, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "done", data(t, body)["phase"])

	status, body = doJSON(t, router, http.MethodGet, "/api/sessions/"+code+"/results", nil, "")
	require.Equal(t, http.StatusOK, status)
	results := data(t, body)
	assert.Equal(t, "Ensemble pour Mouxy", results["top1"].(map[string]any)["name"])
	sessionInfo := results["sessionInfo"].(map[string]any)
	assert.Nil(t, sessionInfo["adminKeyHash"], "the public record must not expose the key hash")
	assert.NotEmpty(t, results["wordsCloud"])
}

func TestVoteIneligibleProposal(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{"adminKey": adminKey}, "")
	require.Equal(t, http.StatusCreated, status)
	code := data(t, body)["code"].(string)

	status, _ = adminAction(t, router, code, "publishShortlist", map[string]any{
		"items": []map[string]any{
			{"id": "prop_1", "name": "Un"},
			{"id": "prop_2", "name": "Deux"},
		},
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = adminAction(t, router, code, "setPhase", map[string]any{"phase": "vote1"})
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, router, http.MethodPost, "/api/sessions/"+code+"/vote", map[string]any{
		"participantId": "alice",
		"proposalIds":   []string{"prop_99"},
		"round":         1,
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INELIGIBLE", body["code"])
}

func TestProposalPatchByAdmin(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{"adminKey": adminKey}, "")
	require.Equal(t, http.StatusCreated, status)
	code := data(t, body)["code"].(string)

	status, _ = adminAction(t, router, code, "setPhase", map[string]any{"phase": "phase2"})
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, router, http.MethodPost, "/api/sessions/"+code+"/proposals", map[string]any{
		"name":          "Ensemble pour Mouxy",
		"justification": "parce que",
		"groupId":       1,
		"form":          "ensemble",
		"participantId": "alice",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	propID := data(t, body)["id"].(string)

	// patching without the admin key is refused
	path := fmt.Sprintf("/api/sessions/%s/proposals/%s", code, propID)
	status, _ = doJSON(t, router, http.MethodPatch, path, map[string]any{"isShortlisted": true}, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, router, http.MethodPatch, path, map[string]any{"isShortlisted": true}, adminKey)
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, router, http.MethodGet, "/api/sessions/"+code+"/proposals", nil, "")
	require.Equal(t, http.StatusOK, status)
	proposals := data(t, body)["proposals"].([]any)
	require.Len(t, proposals, 1)
	assert.Equal(t, true, proposals[0].(map[string]any)["isShortlisted"])
}

func TestSessionCodeIsCaseInsensitive(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{"adminKey": adminKey}, "")
	require.Equal(t, http.StatusCreated, status)
	code := data(t, body)["code"].(string)

	lower := "/api/sessions/" + string(bytes.ToLower([]byte(code)))
	status, _ = doJSON(t, router, http.MethodGet, lower, nil, "")
	assert.Equal(t, http.StatusOK, status)
}
