package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/response"
	"github.com/gravadigital/atelier-api/internal/services"
)

type VoteHandler struct {
	votes   *services.VoteService
	results *services.ResultsService
	log     *log.Logger
}

func NewVoteHandler(votes *services.VoteService, results *services.ResultsService) *VoteHandler {
	return &VoteHandler{
		votes:   votes,
		results: results,
		log:     logger.Handler("vote_handler"),
	}
}

// Status handles GET /api/sessions/:code/vote
func (h *VoteHandler) Status(c *gin.Context) {
	code := sessionCode(c)

	status, err := h.votes.Status(c.Request.Context(), code, c.Query("participantId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

type CastVoteRequest struct {
	ParticipantID string   `json:"participantId" binding:"required"`
	ProposalIDs   []string `json:"proposalIds" binding:"required"`
	Round         int      `json:"round" binding:"required"`
}

// Cast handles POST /api/sessions/:code/vote
func (h *VoteHandler) Cast(c *gin.Context) {
	code := sessionCode(c)

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "paramètres manquants")
		return
	}

	round, err := services.RoundFromInt(req.Round)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.votes.Record(c.Request.Context(), code, round, req.ParticipantID, req.ProposalIDs); err != nil {
		h.log.Warn("Ballot rejected", "code", code, "round", req.Round, "participant_id", req.ParticipantID, "error", err)
		response.FromError(c, err)
		return
	}

	h.log.Info("Ballot accepted", "code", code, "round", req.Round, "participant_id", req.ParticipantID)
	response.Success(c, http.StatusOK, "Vote enregistré", nil)
}

// Shortlist handles GET /api/sessions/:code/shortlist. Public: no admin key
// required, vote counts included.
func (h *VoteHandler) Shortlist(c *gin.Context) {
	code := sessionCode(c)

	shortlist, err := h.votes.EnrichedShortlist(c.Request.Context(), code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{"shortlist": shortlist})
}

// FinalResults handles GET /api/sessions/:code/results
func (h *VoteHandler) FinalResults(c *gin.Context) {
	code := sessionCode(c)

	record, err := h.results.Get(c.Request.Context(), code)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if record == nil {
		response.NotFound(c, "résultats non finalisés")
		return
	}

	response.Success(c, http.StatusOK, "", record)
}
