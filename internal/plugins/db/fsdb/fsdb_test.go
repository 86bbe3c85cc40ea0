package fsdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsLoadMissingFileIsEmpty(t *testing.T) {
	db := NewDb(t.TempDir())
	sessions, err := db.Sessions.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.NotNil(t, sessions)
}

func TestSessionsRoundTrip(t *testing.T) {
	db := NewDb(t.TempDir())
	ctx := context.Background()
	in := domain.Sessions{
		"abc": {
			{UserMessage: "hi", AIMessage: "hello"},
			{UserMessage: "add lunch", AIMessage: "done"},
		},
	}
	require.NoError(t, db.Sessions.Save(ctx, in))

	out, err := db.Sessions.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	raw, err := os.ReadFile(filepath.Join(db.Dir, "chat_sessions.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"abc\": [")
	assert.Contains(t, string(raw), `"user_message": "hi"`)
}

func TestSessionsCorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat_sessions.json"), []byte("{not json"), 0o644))

	sessions, err := NewDb(dir).Sessions.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionsNullFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat_sessions.json"), []byte("null"), 0o644))

	sessions, err := NewDb(dir).Sessions.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sessions)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	db := NewDb(t.TempDir())
	require.NoError(t, db.Sessions.Save(context.Background(), domain.Sessions{"a": nil}))

	names, err := db.Sessions.GetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"chat_sessions"}, names)
}

func TestPromptOverrides(t *testing.T) {
	db := NewDb(t.TempDir())
	require.NoError(t, db.Configure())

	_, ok := db.Prompts.Lookup("assistant")
	assert.False(t, ok)

	require.NoError(t, db.Prompts.Save("assistant", []byte("You are terse.")))
	content, ok := db.Prompts.Lookup("assistant")
	assert.True(t, ok)
	assert.Equal(t, "You are terse.", content)

	prompt, err := db.Prompts.Get("assistant")
	require.NoError(t, err)
	assert.Equal(t, "assistant", prompt.Name)
	assert.True(t, db.Prompts.Exists("assistant"))
}
