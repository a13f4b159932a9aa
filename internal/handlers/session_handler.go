package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/response"
	"github.com/gravadigital/atelier-api/internal/services"
)

type SessionHandler struct {
	sessions *services.SessionService
	log      *log.Logger
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		log:      logger.Handler("session_handler"),
	}
}

type CreateSessionRequest struct {
	AdminKey    string `json:"adminKey" binding:"required"`
	Gentile     string `json:"gentile"`
	CommuneName string `json:"communeName"`
}

type SessionResponse struct {
	Code        string `json:"code"`
	Phase       string `json:"phase"`
	Gentile     string `json:"gentile"`
	CommuneName string `json:"communeName"`
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requête invalide")
		return
	}

	sess, err := h.sessions.Create(c.Request.Context(), req.AdminKey, req.Gentile, req.CommuneName)
	if err != nil {
		h.log.Warn("Session creation rejected", "error", err)
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Session créée", SessionResponse{
		Code:        sess.Code,
		Phase:       sess.Phase.String(),
		Gentile:     sess.Gentile,
		CommuneName: sess.CommuneName,
	})
}

type JoinSessionRequest struct {
	Code            string `json:"code" binding:"required"`
	ParticipantName string `json:"participantName" binding:"required"`
	ParticipantID   string `json:"participantId"`
	GroupID         int    `json:"groupId"`
}

type JoinSessionResponse struct {
	Code          string `json:"code"`
	ParticipantID string `json:"participantId"`
	Phase         string `json:"phase"`
	Gentile       string `json:"gentile"`
	CommuneName   string `json:"communeName"`
}

// Join handles POST /api/sessions/join
func (h *SessionHandler) Join(c *gin.Context) {
	var req JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "code et nom requis")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	sess, p, err := h.sessions.Join(c.Request.Context(), code, req.ParticipantName, req.ParticipantID, req.GroupID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Participant joined", "code", code, "participant_id", p.ID)
	response.Success(c, http.StatusOK, "Session rejointe", JoinSessionResponse{
		Code:          sess.Code,
		ParticipantID: p.ID,
		Phase:         sess.Phase.String(),
		Gentile:       sess.Gentile,
		CommuneName:   sess.CommuneName,
	})
}

type SessionInfoResponse struct {
	Code             string `json:"code"`
	Phase            string `json:"phase"`
	Gentile          string `json:"gentile"`
	CommuneName      string `json:"communeName"`
	ParticipantCount int    `json:"participantCount"`
	CreatedAt        int64  `json:"createdAt"`
}

// Info handles GET /api/sessions/:code
func (h *SessionHandler) Info(c *gin.Context) {
	code := sessionCode(c)

	sess, count, err := h.sessions.Info(c.Request.Context(), code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", SessionInfoResponse{
		Code:             sess.Code,
		Phase:            sess.Phase.String(),
		Gentile:          sess.Gentile,
		CommuneName:      sess.CommuneName,
		ParticipantCount: count,
		CreatedAt:        sess.CreatedAt,
	})
}

// Delete handles DELETE /api/sessions/:code (admin)
func (h *SessionHandler) Delete(c *gin.Context) {
	code := sessionCode(c)

	if _, err := h.sessions.Authorize(c.Request.Context(), code, adminKey(c)); err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), code); err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("Session deleted by admin", "code", code)
	response.Success(c, http.StatusOK, "Session supprimée", nil)
}
