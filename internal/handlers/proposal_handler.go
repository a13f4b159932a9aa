package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/response"
	"github.com/gravadigital/atelier-api/internal/services"
)

type ProposalHandler struct {
	proposals *services.ProposalService
	sessions  *services.SessionService
	log       *log.Logger
}

func NewProposalHandler(proposals *services.ProposalService, sessions *services.SessionService) *ProposalHandler {
	return &ProposalHandler{
		proposals: proposals,
		sessions:  sessions,
		log:       logger.Handler("proposal_handler"),
	}
}

type AddProposalRequest struct {
	Name          string `json:"name" binding:"required"`
	Justification string `json:"justification" binding:"required"`
	Subtitle      string `json:"subtitle"`
	GroupID       int    `json:"groupId" binding:"required"`
	Form          string `json:"form" binding:"required"`
	ParticipantID string `json:"participantId" binding:"required"`
}

// Add handles POST /api/sessions/:code/proposals
func (h *ProposalHandler) Add(c *gin.Context) {
	code := sessionCode(c)

	var req AddProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "tous les champs obligatoires doivent être remplis")
		return
	}

	created, err := h.proposals.Add(c.Request.Context(), code, services.CreateProposalInput{
		Name:          req.Name,
		Justification: req.Justification,
		Subtitle:      req.Subtitle,
		GroupID:       req.GroupID,
		Form:          proposal.Form(req.Form),
		ParticipantID: req.ParticipantID,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Proposal created", "code", code, "proposal_id", created.ID)
	response.Success(c, http.StatusCreated, "Proposition ajoutée", created)
}

// List handles GET /api/sessions/:code/proposals
func (h *ProposalHandler) List(c *gin.Context) {
	code := sessionCode(c)

	active, all, err := h.proposals.Get(c.Request.Context(), code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"proposals":    active,
		"allProposals": all,
	})
}

// Update handles PATCH /api/sessions/:code/proposals/:id (admin)
func (h *ProposalHandler) Update(c *gin.Context) {
	code := sessionCode(c)
	proposalID := c.Param("id")

	if _, err := h.sessions.Authorize(c.Request.Context(), code, adminKey(c)); err != nil {
		response.FromError(c, err)
		return
	}

	var patch proposal.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "patch invalide")
		return
	}

	if err := h.proposals.Update(c.Request.Context(), code, proposalID, patch); err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Proposal updated", "code", code, "proposal_id", proposalID)
	response.Success(c, http.StatusOK, "Proposition mise à jour", nil)
}
