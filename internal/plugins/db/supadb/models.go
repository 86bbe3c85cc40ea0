package supadb

import (
	"github.com/Reyad02/chatting-voice-agent/internal/domain"
)

// ChatSession is one row of chat_sessions: the session id and its turns as
// a jsonb array.
type ChatSession struct {
	ID    string        `json:"id"`
	Turns []domain.Turn `json:"turns"`
}
