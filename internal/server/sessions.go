package restapi

import (
	"net/http"

	"github.com/Reyad02/chatting-voice-agent/internal/core"
	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	"github.com/gin-gonic/gin"
)

type SessionsHandler struct {
	sessions core.SessionStore
}

func NewSessionsHandler(r *gin.Engine, sessions core.SessionStore) *SessionsHandler {
	handler := &SessionsHandler{sessions: sessions}
	r.GET("/sessions/:id", handler.Get)
	return handler
}

// Get returns the turns of one session in order.
func (h *SessionsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	sessions, err := h.sessions.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	turns, ok := sessions[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T("sessions_error_not_found")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "turns": turns})
}
