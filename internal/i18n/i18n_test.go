package i18n

import (
	"testing"

	gi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

func TestTranslation(t *testing.T) {
	cases := []struct {
		lang, expected string
	}{
		{"en", "message is required"},
		{"es", "el mensaje es obligatorio"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.lang, func(t *testing.T) {
			loc, err := Init(tc.lang)
			if err != nil {
				t.Fatalf("init failed: %v", err)
			}
			msg, err := loc.Localize(&gi18n.LocalizeConfig{MessageID: "chat_error_message_required"})
			if err != nil {
				t.Fatalf("localize failed: %v", err)
			}
			if msg != tc.expected {
				t.Fatalf("unexpected translation (%s): %q", tc.lang, msg)
			}
		})
	}
}

func TestTFallsBackToMessageID(t *testing.T) {
	if _, err := Init("en"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if got := T("no_such_message"); got != "no_such_message" {
		t.Fatalf("expected message id passthrough, got %q", got)
	}
	if got := T("sessions_error_not_found"); got != "session not found" {
		t.Fatalf("unexpected translation %q", got)
	}
}
