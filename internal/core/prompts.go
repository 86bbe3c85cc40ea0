package core

import (
	"bytes"
	"embed"
	"slices"
	"strings"
	"text/template"
	"time"

	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
)

const (
	PromptAssistant = "assistant"
	PromptCompanion = "companion"
	PromptSummary   = "summary"
	PromptVoice     = "voice"

	timestampLayout = "2006-01-02 15:04"
)

//go:embed prompts/*.md
var promptFS embed.FS

var builtinPrompts = template.Must(template.ParseFS(promptFS, "prompts/*.md"))

// PromptSource supplies user overrides for the built-in prompts by name.
type PromptSource interface {
	Lookup(name string) (content string, ok bool)
}

// PromptData is what prompt templates can reference.
type PromptData struct {
	Now       string
	Tools     []string
	CanModify bool
}

func NewPromptData(now time.Time, toolNames []string) PromptData {
	return PromptData{
		Now:       now.Format(timestampLayout),
		Tools:     toolNames,
		CanModify: slices.Contains(toolNames, "update_meal") && slices.Contains(toolNames, "delete_meal"),
	}
}

// Has reports whether the named tool is active.
func (d PromptData) Has(tool string) bool {
	return slices.Contains(d.Tools, tool)
}

// RenderPrompt renders the named prompt, preferring an override from
// overrides when one exists and parses.
func RenderPrompt(name string, data PromptData, overrides PromptSource) string {
	tmpl := builtinPrompts.Lookup(name + ".md")
	if overrides != nil {
		if content, ok := overrides.Lookup(name); ok {
			if custom, err := template.New(name).Parse(content); err == nil {
				tmpl = custom
			} else {
				debuglog.Log("ignoring prompt override %s: %v\n", name, err)
			}
		}
	}
	if tmpl == nil {
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		debuglog.Log("rendering prompt %s: %v\n", name, err)
	}
	return strings.TrimSpace(buf.String())
}
