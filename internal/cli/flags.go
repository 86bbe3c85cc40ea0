package cli

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/util"
	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Flags are the command line options. Any option carrying a yaml tag can also
// be set from the config file; the command line wins.
type Flags struct {
	Config   string `long:"config" description:"Path to YAML config file"`
	Debug    int    `long:"debug" description:"Debug level: 0=off, 1=basic, 2=detailed, 3=trace, 4=wire" default:"0" yaml:"debug"`
	Language string `short:"g" long:"language" description:"Language for server messages, e.g. en or es" yaml:"language"`
	Version  bool   `long:"version" description:"Print the version and exit"`

	Address string `long:"address" description:"Address the HTTP server listens on" default:":5050" yaml:"address"`

	Vendor      string        `short:"V" long:"vendor" description:"LLM vendor: openai, azure, azure_entra, anthropic or dryrun" default:"openai" yaml:"vendor"`
	Model       string        `short:"m" long:"model" description:"Model or deployment name; empty uses the vendor default" yaml:"model"`
	Temperature float64       `short:"t" long:"temperature" description:"Sampling temperature" default:"0" yaml:"temperature"`
	TopP        float64       `short:"T" long:"topp" description:"Top-p sampling" default:"0" yaml:"topp"`
	MaxTokens   int           `long:"max-tokens" description:"Completion token limit, 0 for the vendor default" default:"0" yaml:"maxTokens"`
	LLMTimeout  time.Duration `long:"llm-timeout" description:"Deadline for each model call and each tool call" default:"60s" yaml:"llmTimeout"`

	Tools     string `long:"tools" description:"Tool preset: full, calendar, minimal, classic or none" default:"classic" yaml:"tools"`
	Persona   string `long:"persona" description:"Chat persona: assistant or companion" default:"assistant" yaml:"persona"`
	MealMatch string `long:"meal-match" description:"How update/delete find a meal: exact or fold" default:"exact" yaml:"mealMatch"`

	Store    string `long:"store" description:"Record store: memory or sqlite" default:"memory" yaml:"store"`
	DBPath   string `long:"db-path" description:"SQLite database file" default:"~/.config/breya/breya.db" yaml:"dbPath"`
	Seed     bool   `long:"seed" description:"Preload demo meals and events" yaml:"seed"`
	Sessions string `long:"sessions" description:"Session store: fsdb or supabase" default:"fsdb" yaml:"sessions"`
	StateDir string `long:"state-dir" description:"Directory for session and prompt files" default:"~/.config/breya" yaml:"stateDir"`

	CalendarAuth        bool   `long:"calendar-auth" description:"Authorize Google Calendar access and exit"`
	CalendarCredentials string `long:"calendar-credentials" description:"Google OAuth client credentials file" yaml:"calendarCredentials"`
	CalendarToken       string `long:"calendar-token" description:"Google OAuth token file" default:"token.json" yaml:"calendarToken"`
	CalendarID          string `long:"calendar-id" description:"Google calendar id" default:"primary" yaml:"calendarId"`

	Voice      bool   `long:"voice" description:"Enable the /media-stream realtime voice relay" yaml:"voice"`
	VoiceModel string `long:"voice-model" description:"Realtime model for voice mode" yaml:"voiceModel"`
	VoiceName  string `long:"voice-name" description:"Realtime voice" default:"echo" yaml:"voiceName"`
}

var errHelp = errors.New("help requested")

// Init parses args (without the program name) and merges the config file.
func Init(args []string) (ret *Flags, err error) {
	ret = &Flags{}
	parser := flags.NewParser(ret, flags.Default&^flags.PrintErrors)
	if _, err = parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return nil, errHelp
		}
		return nil, err
	}

	if ret.Config == "" {
		if ret.Config, err = util.GetDefaultConfigPath(); err != nil {
			debuglog.Log("%v\n", err)
			ret.Config = ""
		}
	}
	if ret.Config == "" {
		return ret, nil
	}

	var fileFlags *Flags
	if fileFlags, err = loadYAMLConfig(ret.Config); err != nil {
		return nil, err
	}
	mergeUnset(ret, fileFlags, usedFlags(args))
	return ret, nil
}

func loadYAMLConfig(path string) (*Flags, error) {
	path, err := util.GetAbsolutePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("config_error_read_file"), err)
	}
	ret := &Flags{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf(i18n.T("config_error_parse_file"), err)
	}
	debuglog.Debug(debuglog.Basic, "loaded config from %s\n", path)
	return ret, nil
}

// usedFlags collects the long and short names given on the command line.
func usedFlags(args []string) map[string]bool {
	ret := map[string]bool{}
	for _, arg := range args {
		if arg == "--" {
			break
		}
		switch {
		case strings.HasPrefix(arg, "--"):
			name, _, _ := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
			ret[name] = true
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			ret[arg[1:2]] = true
		}
	}
	return ret
}

// mergeUnset copies every non-zero yaml value whose flag was not given on the
// command line.
func mergeUnset(dst, src *Flags, used map[string]bool) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	t := dv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("yaml") == "" {
			continue
		}
		if used[field.Tag.Get("long")] || used[field.Tag.Get("short")] {
			continue
		}
		if value := sv.Field(i); !value.IsZero() {
			dv.Field(i).Set(value)
		}
	}
}
