package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/loboot/vote-system/internal/models"
	"go.uber.org/zap"
)

// Session is the persisted {token, user} pair. Both fields are written and
// cleared together so a restored session is never half-populated.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Store struct {
	mu   sync.Mutex
	path string
	l    *zap.Logger
	cur  Session
}

// New restores the session from path if a structurally valid file exists.
// A corrupt file is removed and treated as absent, never an error.
func New(path string, l *zap.Logger) (*Store, error) {
	s := &Store{path: path, l: l}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("session: failed to create session dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: failed to read session file: %w", err)
	}

	var restored Session
	if err = json.Unmarshal(data, &restored); err != nil || restored.Token == "" || restored.User == nil {
		l.Warn("discarding invalid session file", zap.String("path", path), zap.Error(err))
		_ = os.Remove(path)
		return s, nil
	}
	s.cur = restored
	l.Debug("session restored", zap.String("username", restored.User.Username))
	return s, nil
}

// Set persists user and token as one unit and updates in-memory state.
func (s *Store) Set(user *models.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Session{Token: token, User: user}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("session: failed to marshal session: %w", err)
	}
	// write-then-rename so a crash mid-write cannot leave a torn file
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: failed to write session file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session: failed to replace session file: %w", err)
	}
	s.cur = next
	return nil
}

// Clear drops the session from disk and memory.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = Session{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: failed to remove session file: %w", err)
	}
	return nil
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Token
}

func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.User
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}
