package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learningpal/internal/app"
	"learningpal/internal/model"
	"learningpal/internal/transport/http/response"
)

type LearningHandler struct {
	learningService *app.LearningService
}

// GenerateRequest uses the field names of the learner form. Required fields
// are checked by the service so the error can name what is missing.
type GenerateRequest struct {
	Topic          string `json:"topic"`
	Goal           string `json:"goal"`
	Level          string `json:"level"`
	LearningStyle  string `json:"learningStyle"`
	SourceDocument string `json:"sourceDocument"`
}

func NewLearningHandler(learningService *app.LearningService) *LearningHandler {
	return &LearningHandler{learningService: learningService}
}

func (h *LearningHandler) Generate(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.learningService.Generate(c.Request.Context(), app.GenerateInput{
		UserID:         userID,
		Topic:          req.Topic,
		Goal:           req.Goal,
		Level:          req.Level,
		LearningStyle:  req.LearningStyle,
		SourceDocument: req.SourceDocument,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "save learning session failed")
		}
		return
	}

	response.OK(c, gin.H{
		"session_id": result.SessionID,
		"type":       result.Generated.Type,
		"content":    result.Generated.Content,
		"timestamp":  result.Generated.Timestamp,
		"error":      result.Generated.Error,
		"stage":      result.Generated.Stage,
		"created_at": result.CreatedAt,
	})
}

func (h *LearningHandler) ListSessions(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	summaries, err := h.learningService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list learning sessions failed")
		return
	}
	response.OK(c, gin.H{"sessions": summaries})
}

func (h *LearningHandler) GetSession(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	session, err := h.learningService.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.sessionError(c, err, "get learning session failed")
		return
	}
	response.OK(c, sessionPayload(session))
}

func (h *LearningHandler) DeleteSession(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	if err := h.learningService.DeleteSession(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.sessionError(c, err, "delete learning session failed")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *LearningHandler) sessionError(c *gin.Context, err error, message string) {
	if errors.Is(err, app.ErrSessionNotFound) {
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		return
	}
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, message)
}

func sessionPayload(session *model.LearningSession) gin.H {
	generated := session.Generated()
	return gin.H{
		"session_id": session.SessionID,
		"inputs":     session.Inputs(),
		"type":       generated.Type,
		"content":    generated.Content,
		"timestamp":  generated.Timestamp,
		"error":      generated.Error,
		"stage":      generated.Stage,
		"created_at": session.CreatedAt,
	}
}
