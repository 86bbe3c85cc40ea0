package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Reyad02/chatting-voice-agent/internal/core"
	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/anthropic"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/azure"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/azure_entra"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/dryrun"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/openai"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/calendar"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/calendar/google"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/db/fsdb"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/db/supadb"
	restapi "github.com/Reyad02/chatting-voice-agent/internal/server"
	"github.com/Reyad02/chatting-voice-agent/internal/store"
	"github.com/Reyad02/chatting-voice-agent/internal/tools"
	"github.com/Reyad02/chatting-voice-agent/internal/util"
	"github.com/Reyad02/chatting-voice-agent/internal/voice"
	"github.com/openai/openai-go/option"
)

const (
	VendorOpenAI     = "openai"
	VendorAzure      = "azure"
	VendorAzureEntra = "azure_entra"
	VendorAnthropic  = "anthropic"
	VendorDryRun     = "dryrun"

	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	SessionsFsdb     = "fsdb"
	SessionsSupabase = "supabase"
)

// App is the wired server: every collaborator built from Flags.
type App struct {
	Chatter  *core.Chatter
	Store    store.Store
	Sessions core.SessionStore
	Relay    *voice.Relay
	Supabase *supadb.Client
	Db       *fsdb.Db

	closers []func() error
}

// Setup builds the App. Optional integrations (calendar, Supabase, voice)
// that cannot start are logged and left out unless explicitly selected.
func Setup(ctx context.Context, f *Flags) (ret *App, err error) {
	ret = &App{}
	defer func() {
		if err != nil {
			ret.Close()
			ret = nil
		}
	}()

	var stateDir string
	if stateDir, err = util.GetAbsolutePath(f.StateDir); err != nil {
		return
	}
	ret.Db = fsdb.NewDb(stateDir)
	if err = ret.Db.Configure(); err != nil {
		return
	}

	if ret.Store, err = ret.newStore(ctx, f); err != nil {
		return
	}
	if ret.Sessions, err = ret.newSessions(f); err != nil {
		return
	}

	var vendor ai.Vendor
	if vendor, err = NewVendor(f.Vendor); err != nil {
		return
	}

	toolbox := &tools.Toolbox{
		Store:    ret.Store,
		Calendar: newCalendar(ctx, f, ret.Store),
		Matcher:  store.MatcherByName(f.MealMatch),
	}
	var registry *tools.Registry
	if registry, err = toolbox.Registry(f.Tools); err != nil {
		return
	}
	debuglog.Debug(debuglog.Basic, "vendor %s, tools %v\n", vendor.GetName(), registry.Names())

	ret.Chatter = &core.Chatter{
		Vendor:   vendor,
		Registry: registry,
		Sessions: ret.Sessions,
		Prompts:  ret.Db.Prompts,
		Persona:  f.Persona,
		Options: domain.ChatOptions{
			Model:       f.Model,
			Temperature: f.Temperature,
			TopP:        f.TopP,
			MaxTokens:   f.MaxTokens,
		},
		Timeout: f.LLMTimeout,
	}

	if f.Voice {
		if ret.Relay, err = voice.NewRelay(voice.Config{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			URL:         os.Getenv("OPENAI_REALTIME_URL"),
			Model:       f.VoiceModel,
			Voice:       f.VoiceName,
			ToolTimeout: f.LLMTimeout,
		}, registry, ret.Db.Prompts); err != nil {
			return
		}
	}
	return
}

// Options is what the HTTP router needs from the App.
func (a *App) Options() restapi.Options {
	return restapi.Options{
		Chatter:  a.Chatter,
		Store:    a.Store,
		Sessions: a.Sessions,
		Relay:    a.Relay,
		Supabase: a.Supabase,
	}
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) newStore(ctx context.Context, f *Flags) (ret store.Store, err error) {
	switch f.Store {
	case StoreMemory:
		ret = store.NewMemory()
	case StoreSQLite:
		var path string
		if path, err = util.GetAbsolutePath(f.DBPath); err != nil {
			return nil, err
		}
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		var db *store.SQLite
		if db, err = store.NewSQLite(path); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		ret = db
	default:
		return nil, fmt.Errorf("unknown store %q", f.Store)
	}

	if f.Seed {
		if err = store.Seed(ctx, ret); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (a *App) newSessions(f *Flags) (core.SessionStore, error) {
	client, err := supadb.NewClientFromEnv()
	if err != nil {
		debuglog.Debug(debuglog.Basic, "supabase disabled: %v\n", err)
	} else {
		a.Supabase = client
	}

	switch f.Sessions {
	case SessionsFsdb:
		return a.Db.Sessions, nil
	case SessionsSupabase:
		if a.Supabase == nil {
			return nil, err
		}
		return a.Supabase.Sessions(), nil
	}
	return nil, fmt.Errorf("unknown session store %q", f.Sessions)
}

// NewVendor builds the named LLM vendor from environment credentials.
func NewVendor(name string) (ai.Vendor, error) {
	switch name {
	case VendorOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		var opts []option.RequestOption
		if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
			opts = append(opts, option.WithBaseURL(base))
		}
		return openai.NewClient(key, opts...), nil
	case VendorAzure:
		return azure.NewClient(azure.Config{
			APIKey:      os.Getenv("AZURE_OPENAI_API_KEY"),
			BaseURL:     os.Getenv("AZURE_OPENAI_ENDPOINT"),
			Deployments: os.Getenv("AZURE_OPENAI_DEPLOYMENTS"),
			APIVersion:  os.Getenv("AZURE_OPENAI_API_VERSION"),
		})
	case VendorAzureEntra:
		return azure_entra.NewClient(azure_entra.Config{
			BaseURL:     os.Getenv("AZURE_OPENAI_ENDPOINT"),
			Deployments: os.Getenv("AZURE_OPENAI_DEPLOYMENTS"),
			APIVersion:  os.Getenv("AZURE_OPENAI_API_VERSION"),
		})
	case VendorAnthropic:
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return anthropic.NewClient(key), nil
	case VendorDryRun:
		return dryrun.NewClient(), nil
	}
	return nil, fmt.Errorf("unknown vendor %q", name)
}

// newCalendar returns nil, dropping the calendar tools, when no credentials
// are configured or the saved token cannot be used.
func newCalendar(ctx context.Context, f *Flags, mirror calendar.Mirror) *calendar.Adapter {
	if f.CalendarCredentials == "" {
		debuglog.Debug(debuglog.Basic, "%s\n", i18n.T("calendar_not_configured"))
		return nil
	}
	provider, err := google.NewWithCredentials(ctx, f.CalendarID, fileCredentials(f))
	if err != nil {
		if errors.Is(err, google.ErrNoToken) {
			debuglog.Log("calendar token missing, run with --calendar-auth first\n")
		} else {
			debuglog.Log("calendar disabled: %v\n", err)
		}
		return nil
	}
	return calendar.NewAdapter(provider, mirror)
}

func fileCredentials(f *Flags) *google.FileCredentials {
	credentials, err := util.GetAbsolutePath(f.CalendarCredentials)
	if err != nil {
		credentials = f.CalendarCredentials
	}
	token, err := util.GetAbsolutePath(f.CalendarToken)
	if err != nil {
		token = f.CalendarToken
	}
	return google.NewFileCredentials(credentials, token)
}
