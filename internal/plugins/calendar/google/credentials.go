package google

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// ErrNoToken means the authorization flow has not been run yet.
var ErrNoToken = errors.New("no saved calendar token")

// CredentialProvider acquires, refreshes and persists calendar credentials.
type CredentialProvider interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// FileCredentials is the installed-app flow backed by credentials.json (the
// OAuth client) and token.json (the user's saved token).
type FileCredentials struct {
	CredentialsPath string
	TokenPath       string
	Scopes          []string
}

func NewFileCredentials(credentialsPath, tokenPath string) *FileCredentials {
	return &FileCredentials{
		CredentialsPath: credentialsPath,
		TokenPath:       tokenPath,
		Scopes:          []string{gcal.CalendarScope},
	}
}

func (c *FileCredentials) config() (*oauth2.Config, error) {
	data, err := os.ReadFile(c.CredentialsPath)
	if err != nil {
		return nil, errors.Wrap(err, "read client credentials")
	}
	cfg, err := google.ConfigFromJSON(data, c.Scopes...)
	if err != nil {
		return nil, errors.Wrap(err, "parse client credentials")
	}
	return cfg, nil
}

// TokenSource loads the saved token. Refreshed tokens are written back to
// TokenPath.
func (c *FileCredentials) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	tok, err := c.loadToken()
	if err != nil {
		return nil, err
	}
	return &persistingTokenSource{
		base: cfg.TokenSource(ctx, tok),
		last: tok,
		save: c.saveToken,
	}, nil
}

// Authorize prints the consent URL, reads the code from in and saves the
// exchanged token.
func (c *FileCredentials) Authorize(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintln(out, i18n.T("calendar_auth_prompt"))
	fmt.Fprintln(out, authURL)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "read authorization code")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("empty authorization code")
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return errors.Wrap(err, "exchange authorization code")
	}
	if err := c.saveToken(tok); err != nil {
		return err
	}
	fmt.Fprintf(out, i18n.T("calendar_auth_saved"), c.TokenPath)
	return nil
}

func (c *FileCredentials) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath)
	if os.IsNotExist(err) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, errors.Wrap(err, "read token")
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, errors.Wrap(err, "decode token")
	}
	return tok, nil
}

func (c *FileCredentials) saveToken(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode token")
	}
	if dir := filepath.Dir(c.TokenPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create token directory")
		}
	}
	return errors.Wrap(os.WriteFile(c.TokenPath, data, 0o600), "write token")
}

// persistingTokenSource saves the token whenever the underlying source hands
// out a new access token.
type persistingTokenSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	last *oauth2.Token
	save func(*oauth2.Token) error
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil || tok.AccessToken != p.last.AccessToken {
		if err := p.save(tok); err != nil {
			debuglog.Log("calendar: could not persist refreshed token: %v\n", err)
		}
		p.last = tok
	}
	return tok, nil
}
