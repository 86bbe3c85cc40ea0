package fsdb

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
)

// SessionsFileName is the whole-store file, without extension.
const SessionsFileName = "chat_sessions"

// SessionsEntity keeps every session in a single JSON file that is read and
// rewritten as a whole.
type SessionsEntity struct {
	*StorageEntity
	mu sync.Mutex
}

// Load reads the whole store. A missing or corrupt file reads as empty.
func (o *SessionsEntity) Load(context.Context) (domain.Sessions, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.load()
}

func (o *SessionsEntity) load() (domain.Sessions, error) {
	content, err := os.ReadFile(o.BuildFilePathByName(SessionsFileName))
	if os.IsNotExist(err) {
		return domain.Sessions{}, nil
	}
	if err != nil {
		return nil, err
	}

	ret := domain.Sessions{}
	if err = json.Unmarshal(content, &ret); err != nil {
		debuglog.Debug(debuglog.Basic, "session file %s is corrupt, starting empty: %v\n", o.BuildFilePathByName(SessionsFileName), err)
		return domain.Sessions{}, nil
	}
	if ret == nil {
		ret = domain.Sessions{}
	}
	return ret, nil
}

// Save overwrites the whole store.
func (o *SessionsEntity) Save(_ context.Context, sessions domain.Sessions) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.save(sessions)
}

func (o *SessionsEntity) save(sessions domain.Sessions) error {
	content, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}
	return o.StorageEntity.Save(SessionsFileName, content)
}
