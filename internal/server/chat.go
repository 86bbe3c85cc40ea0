package restapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Reyad02/chatting-voice-agent/internal/core"
	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatter *core.Chatter
}

func NewChatHandler(r *gin.Engine, chatter *core.Chatter) *ChatHandler {
	handler := &ChatHandler{chatter: chatter}
	r.POST("/chat", handler.HandleChat)
	return handler
}

// HandleChat answers one message. Model and tool failures are already folded
// into the reply, so only request and session store problems produce errors.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var request domain.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T("chat_error_invalid_request")})
		return
	}
	if strings.TrimSpace(request.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T("chat_error_message_required")})
		return
	}

	response, err := h.chatter.Send(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, core.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T("chat_error_message_required")})
			return
		}
		debuglog.Log("chat request failed: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T("chat_fallback_reply")})
		return
	}
	c.JSON(http.StatusOK, response)
}
