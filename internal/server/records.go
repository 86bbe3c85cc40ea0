package restapi

import (
	"net/http"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	"github.com/Reyad02/chatting-voice-agent/internal/store"
	"github.com/gin-gonic/gin"
)

type RecordsHandler struct {
	store store.Store
}

func NewRecordsHandler(r *gin.Engine, s store.Store) *RecordsHandler {
	handler := &RecordsHandler{store: s}
	r.GET("/records/:kind", handler.List)
	return handler
}

// List returns a whole collection: meals, recipes, reminders, lists or events.
func (h *RecordsHandler) List(c *gin.Context) {
	kind, ok := domain.ParseRecordKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T("records_error_unknown_kind")})
		return
	}
	records, err := store.List(c.Request.Context(), h.store, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}
