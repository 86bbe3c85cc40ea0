package restapi

import (
	"net/http"
	"slices"

	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/db/supadb"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type SupabaseHandler struct {
	client *supadb.Client
}

func NewSupabaseHandler(r *gin.Engine, client *supadb.Client) *SupabaseHandler {
	if client == nil {
		return nil
	}

	handler := &SupabaseHandler{client: client}
	group := r.Group("/supabase")
	group.GET("/health", handler.Health)
	group.GET("/sessions", handler.ListSessions)
	group.GET("/sessions/:id", handler.GetSession)

	return handler
}

func (h *SupabaseHandler) Health(c *gin.Context) {
	if err := h.client.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListSessions returns the stored session ids, sorted.
func (h *SupabaseHandler) ListSessions(c *gin.Context) {
	sessions, err := h.client.Sessions().Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ids := lo.Keys(sessions)
	slices.Sort(ids)
	c.JSON(http.StatusOK, ids)
}

func (h *SupabaseHandler) GetSession(c *gin.Context) {
	session, err := h.client.Sessions().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T("sessions_error_not_found")})
		return
	}
	c.JSON(http.StatusOK, session)
}
