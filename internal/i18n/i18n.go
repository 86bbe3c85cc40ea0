package i18n

import (
	"embed"
	"encoding/json"
	"os"
	"strings"
	"sync"

	gi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	mu         sync.RWMutex
	translator *gi18n.Localizer
)

// Init loads every embedded locale and selects locale as the active
// language. An empty locale falls back to the LANG environment variable,
// then English.
func Init(locale string) (*gi18n.Localizer, error) {
	bundle := gi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if _, err = bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			return nil, err
		}
	}

	if locale == "" {
		locale = detectLocale()
	}

	loc := gi18n.NewLocalizer(bundle, locale, "en")
	mu.Lock()
	translator = loc
	mu.Unlock()
	return loc, nil
}

// T returns the translation for messageID, or messageID itself when no
// translation exists.
func T(messageID string) string {
	mu.RLock()
	loc := translator
	mu.RUnlock()
	if loc == nil {
		var err error
		if loc, err = Init(""); err != nil {
			return messageID
		}
	}
	msg, err := loc.Localize(&gi18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}

func detectLocale() string {
	lang := os.Getenv("LANG")
	if lang == "" || lang == "C" || lang == "POSIX" {
		return "en"
	}
	// en_US.UTF-8 -> en-US
	lang = strings.SplitN(lang, ".", 2)[0]
	return strings.ReplaceAll(lang, "_", "-")
}
