package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/vote"
	"github.com/gravadigital/atelier-api/internal/domain/word"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/response"
	"github.com/gravadigital/atelier-api/internal/services"
)

// AdminHandler serves the admin console: the full data bundle and the
// phase/shortlist/finalize actions. Every route verifies the session admin
// key first.
type AdminHandler struct {
	sessions  *services.SessionService
	words     *services.WordService
	proposals *services.ProposalService
	votes     *services.VoteService
	results   *services.ResultsService
	log       *log.Logger
}

func NewAdminHandler(sessions *services.SessionService, words *services.WordService, proposals *services.ProposalService, votes *services.VoteService, results *services.ResultsService) *AdminHandler {
	return &AdminHandler{
		sessions:  sessions,
		words:     words,
		proposals: proposals,
		votes:     votes,
		results:   results,
		log:       logger.Handler("admin_handler"),
	}
}

// AdminBundle is everything the admin console polls in one request.
type AdminBundle struct {
	Session      *SessionInfoResponse  `json:"session"`
	Words        []word.Word           `json:"words"`
	Proposals    []proposal.Proposal   `json:"proposals"`
	Shortlist    []vote.EnrichedItem   `json:"shortlist"`
	Participants []session.Participant `json:"participants"`
	VoterCountR1 int                   `json:"voterCountR1"`
	VoterCountR2 int                   `json:"voterCountR2"`
	FinalResults *vote.FinalResults    `json:"finalResults,omitempty"`
}

// Bundle handles GET /api/sessions/:code/admin
func (h *AdminHandler) Bundle(c *gin.Context) {
	code := sessionCode(c)
	ctx := c.Request.Context()

	sess, err := h.sessions.Authorize(ctx, code, adminKey(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	phase, err := h.sessions.GetPhase(ctx, code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	words, err := h.words.Words(ctx, code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	_, allProposals, err := h.proposals.Get(ctx, code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	shortlist, err := h.votes.EnrichedShortlist(ctx, code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	participants, err := h.sessions.Participants(ctx, code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	voterCountR1, err := h.votes.VoterCount(ctx, code, vote.Round1)
	if err != nil {
		response.FromError(c, err)
		return
	}
	voterCountR2, err := h.votes.VoterCount(ctx, code, vote.Round2)
	if err != nil {
		response.FromError(c, err)
		return
	}

	finalResults, err := h.results.Get(ctx, code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	participantCount := len(participants)
	c.JSON(http.StatusOK, AdminBundle{
		Session: &SessionInfoResponse{
			Code:             sess.Code,
			Phase:            phase.String(),
			Gentile:          sess.Gentile,
			CommuneName:      sess.CommuneName,
			ParticipantCount: participantCount,
			CreatedAt:        sess.CreatedAt,
		},
		Words:        words,
		Proposals:    allProposals,
		Shortlist:    shortlist,
		Participants: participants,
		VoterCountR1: voterCountR1,
		VoterCountR2: voterCountR2,
		FinalResults: finalResults,
	})
}

type AdminActionRequest struct {
	Action string          `json:"action" binding:"required"`
	Data   json.RawMessage `json:"data"`
}

type setPhaseAction struct {
	Phase string `json:"phase"`
}

type publishShortlistAction struct {
	Items []proposal.ShortlistItem `json:"items"`
}

type updateShortlistItemAction struct {
	ItemID  string             `json:"itemId"`
	Updates proposal.ItemPatch `json:"updates"`
}

type finalizeAction struct {
	Top1 string `json:"top1"`
	Alt1 string `json:"alt1"`
	Alt2 string `json:"alt2"`
}

// Action handles POST /api/sessions/:code/admin
func (h *AdminHandler) Action(c *gin.Context) {
	code := sessionCode(c)
	ctx := c.Request.Context()

	var req AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "paramètres manquants")
		return
	}

	if _, err := h.sessions.Authorize(ctx, code, adminKey(c)); err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Admin action", "code", code, "action", req.Action)

	switch req.Action {
	case "setPhase":
		var data setPhaseAction
		if err := json.Unmarshal(req.Data, &data); err != nil {
			response.BadRequest(c, "phase requise")
			return
		}
		phase, valid := session.PhaseFromString(data.Phase)
		if !valid {
			response.BadRequest(c, "phase invalide")
			return
		}
		if err := h.sessions.SetPhase(ctx, code, phase); err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, "Phase mise à jour", gin.H{"phase": phase})

	case "publishShortlist":
		var data publishShortlistAction
		if err := json.Unmarshal(req.Data, &data); err != nil {
			response.BadRequest(c, "liste de propositions requise")
			return
		}
		if err := h.votes.PublishShortlist(ctx, code, data.Items); err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, "Shortlist publiée", gin.H{"count": len(data.Items)})

	case "updateShortlistItem":
		var data updateShortlistItemAction
		if err := json.Unmarshal(req.Data, &data); err != nil || data.ItemID == "" {
			response.BadRequest(c, "itemId et updates requis")
			return
		}
		if err := h.votes.UpdateShortlistItem(ctx, code, data.ItemID, data.Updates); err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, "Proposition mise à jour", nil)

	case "finalize":
		var data finalizeAction
		if err := json.Unmarshal(req.Data, &data); err != nil {
			response.BadRequest(c, "top1, alt1 et alt2 requis")
			return
		}
		record, err := h.results.Finalize(ctx, code, data.Top1, data.Alt1, data.Alt2)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, "Atelier finalisé", record)

	default:
		response.BadRequest(c, "action inconnue")
	}
}
