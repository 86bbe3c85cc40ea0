package supadb

import (
	"context"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/pkg/errors"
	postgrest "github.com/supabase-community/postgrest-go"
	supabase "github.com/supabase-community/supabase-go"
)

type SessionRepository struct {
	client *supabase.Client
}

// Load reads every session row.
func (r *SessionRepository) Load(ctx context.Context) (domain.Sessions, error) {
	_ = ctx
	var rows []ChatSession
	_, err := r.client.From(sessionsTable).Select("*", "", false).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, errors.Wrap(err, "load chat sessions")
	}
	ret := make(domain.Sessions, len(rows))
	for _, row := range rows {
		ret[row.ID] = row.Turns
	}
	return ret, nil
}

// Get returns one session, or nil when it does not exist.
func (r *SessionRepository) Get(ctx context.Context, id string) (*ChatSession, error) {
	_ = ctx
	var rows []ChatSession
	_, err := r.client.From(sessionsTable).Select("*", "", false).Eq("id", id).Limit(1, "").ExecuteTo(&rows)
	if err != nil {
		return nil, errors.Wrapf(err, "get chat session %s", id)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Save upserts every session in the map. Rows missing from the map are left
// alone; sessions are never deleted.
func (r *SessionRepository) Save(ctx context.Context, sessions domain.Sessions) error {
	_ = ctx
	if len(sessions) == 0 {
		return nil
	}
	payload := make([]ChatSession, 0, len(sessions))
	for id, turns := range sessions {
		if turns == nil {
			turns = []domain.Turn{}
		}
		payload = append(payload, ChatSession{ID: id, Turns: turns})
	}
	_, _, err := r.client.From(sessionsTable).Upsert(payload, "id", "minimal", "").Execute()
	return errors.Wrap(err, "save chat sessions")
}
