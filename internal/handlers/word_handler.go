package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/atelier-api/internal/domain/word"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/response"
	"github.com/gravadigital/atelier-api/internal/services"
)

type WordHandler struct {
	words *services.WordService
	log   *log.Logger
}

func NewWordHandler(words *services.WordService) *WordHandler {
	return &WordHandler{
		words: words,
		log:   logger.Handler("word_handler"),
	}
}

type AddWordRequest struct {
	Word string `json:"word" binding:"required"`
	Tag  string `json:"tag" binding:"required"`
}

// Add handles POST /api/sessions/:code/words
func (h *WordHandler) Add(c *gin.Context) {
	code := sessionCode(c)

	var req AddWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "mot et tag requis")
		return
	}

	added, err := h.words.Add(c.Request.Context(), code, req.Word, word.Tag(req.Tag))
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Debug("Word added", "code", code, "word", added.Word, "count", added.Count)
	response.Success(c, http.StatusOK, "Mot ajouté", added)
}

// List handles GET /api/sessions/:code/words, optionally filtered by ?tag=
func (h *WordHandler) List(c *gin.Context) {
	code := sessionCode(c)

	var (
		words []word.Word
		err   error
	)
	if tag := c.Query("tag"); tag != "" {
		words, err = h.words.WordsByTag(c.Request.Context(), code, word.Tag(tag))
	} else {
		words, err = h.words.Words(c.Request.Context(), code)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{"words": words})
}
