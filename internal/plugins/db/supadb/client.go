package supadb

import (
	"context"
	"fmt"
	"os"

	supabase "github.com/supabase-community/supabase-go"
)

const sessionsTable = "chat_sessions"

// Client wraps the Supabase SDK to expose typed helpers for chat sessions.
type Client struct {
	client *supabase.Client
}

// NewClientFromEnv instantiates the Supabase client when credentials are present.
func NewClientFromEnv() (*Client, error) {
	url := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if url == "" || key == "" {
		return nil, fmt.Errorf("supabase credentials missing: SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY not set")
	}
	return NewClient(url, key)
}

func NewClient(url, key string) (*Client, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

// Ping verifies the Supabase connection with a one-row read of the sessions
// table.
func (c *Client) Ping(ctx context.Context) error {
	_ = ctx
	if c == nil || c.client == nil {
		return fmt.Errorf("supabase client not initialized")
	}
	_, err := c.client.From(sessionsTable).Select("id", "", false).Limit(1, "").ExecuteTo(&[]ChatSession{})
	return err
}

// Sessions returns the session store backed by the chat_sessions table.
func (c *Client) Sessions() *SessionRepository {
	return &SessionRepository{client: c.client}
}
