package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/atelier-api/internal/domain/workshop"
)

// Response representa la estructura estándar de respuesta de la API
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Success envía una respuesta exitosa
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error envía una respuesta de error con un código legible por máquina
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// FromError traduce un error del motor al status HTTP correspondiente. Cada
// kind del dominio tiene su propio status, para que el cliente pueda
// distinguir "ya votado" de "no elegible" y de un error de validación.
func FromError(c *gin.Context, err error) {
	kind := workshop.KindOf(err)
	switch kind {
	case workshop.KindNotFound:
		Error(c, http.StatusNotFound, string(kind), err.Error())
	case workshop.KindAuth:
		Error(c, http.StatusForbidden, string(kind), err.Error())
	case workshop.KindPhase:
		Error(c, http.StatusBadRequest, string(kind), err.Error())
	case workshop.KindValidation:
		Error(c, http.StatusBadRequest, string(kind), err.Error())
	case workshop.KindIneligible:
		Error(c, http.StatusBadRequest, string(kind), err.Error())
	case workshop.KindAlreadyVoted:
		Error(c, http.StatusConflict, string(kind), err.Error())
	case workshop.KindConflict:
		Error(c, http.StatusConflict, string(kind), err.Error())
	default:
		Error(c, http.StatusInternalServerError, "INTERNAL", "erreur serveur")
	}
}

// BadRequest envía un error 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, string(workshop.KindValidation), message)
}

// NotFound envía un error 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, string(workshop.KindNotFound), message)
}

// Internal envía un error 500
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "INTERNAL", message)
}
