package restapi

import (
	"net/http"

	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/voice"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type VoiceHandler struct {
	relay    *voice.Relay
	upgrader websocket.Upgrader
}

func NewVoiceHandler(r *gin.Engine, relay *voice.Relay) *VoiceHandler {
	handler := &VoiceHandler{
		relay: relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	r.GET("/", handler.Index)
	r.GET("/start-chat/", handler.StartChat)
	r.GET("/media-stream", handler.MediaStream)
	return handler
}

func (h *VoiceHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": i18n.T("server_running")})
}

// StartChat serves the browser page that opens the audio socket.
func (h *VoiceHandler) StartChat(c *gin.Context) {
	c.HTML(http.StatusOK, "chat.html", gin.H{"SocketURL": socketURL(c.Request)})
}

func (h *VoiceHandler) MediaStream(c *gin.Context) {
	if h.relay == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": i18n.T("voice_error_not_configured")})
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		debuglog.Log("media stream upgrade failed: %v\n", err)
		return
	}
	if err = h.relay.Serve(c.Request.Context(), conn); err != nil {
		debuglog.Log("media stream ended: %v\n", err)
	}
}

func socketURL(r *http.Request) string {
	scheme := "ws"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "wss"
	}
	return scheme + "://" + r.Host + "/media-stream"
}
