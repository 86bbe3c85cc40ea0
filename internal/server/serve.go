package restapi

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/Reyad02/chatting-voice-agent/internal/core"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/db/supadb"
	"github.com/Reyad02/chatting-voice-agent/internal/store"
	"github.com/Reyad02/chatting-voice-agent/internal/voice"
	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// Options holds what the router serves. Relay and Supabase are optional; their
// routes answer 503 or are left out when nil.
type Options struct {
	Chatter  *core.Chatter
	Store    store.Store
	Sessions core.SessionStore
	Relay    *voice.Relay
	Supabase *supadb.Client
}

// NewRouter wires every handler onto a fresh gin engine.
func NewRouter(opts Options) *gin.Engine {
	if debuglog.Enabled(debuglog.Detailed) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if debuglog.Enabled(debuglog.Detailed) {
		r.Use(gin.Logger())
	}

	r.SetHTMLTemplate(template.Must(template.ParseFS(staticFS, "static/chat.html")))
	assets, _ := fs.Sub(staticFS, "static")
	r.StaticFileFS("/static/main.js", "main.js", http.FS(assets))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	NewChatHandler(r, opts.Chatter)
	NewRecordsHandler(r, opts.Store)
	NewSessionsHandler(r, opts.Sessions)
	NewVoiceHandler(r, opts.Relay)
	NewSupabaseHandler(r, opts.Supabase)
	return r
}

// Serve runs the router on address until ctx is cancelled.
func Serve(ctx context.Context, opts Options, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		debuglog.Log("listening on %s\n", address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
