// Package auth logs in against the backend and keeps the resulting session
// in the profile's cache.db so later runs start logged in.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/bus"
	"github.com/matheus3301/frigo/internal/store"
	"go.uber.org/zap"
)

const sessionKey = "session"

var (
	// ErrNoSession means nobody is logged in on this profile.
	ErrNoSession = errors.New("not logged in")
	// ErrMissingCredentials is returned when username or password is blank.
	ErrMissingCredentials = errors.New("username and password are required")
)

// Session is the logged-in user.
type Session struct {
	UserID   api.ID   `json:"user_id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Role     api.Role `json:"role"`
	Token    string   `json:"token"`
	// ClientID links a USER login to its customer record.
	ClientID api.ID `json:"client_id,omitempty"`
}

// Admin reports whether the session gets the admin portal.
func (s *Session) Admin() bool { return s.Role == api.RoleAdmin }

// Change is the payload of session.changed events. Session is nil on logout.
type Change struct {
	Session *Session
}

// Service owns the current session.
type Service struct {
	db     *store.DB
	client *api.Client
	bus    *bus.Bus
	logger *zap.Logger

	mu      sync.RWMutex
	current *Session
}

// NewService creates an auth service. Nothing is loaded until Restore or Login.
func NewService(db *store.DB, client *api.Client, b *bus.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, client: client, bus: b, logger: logger.Named("auth")}
}

// Current returns the active session, or nil when logged out.
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Login authenticates, persists the session and installs its token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	sess := &Session{
		UserID:   resp.ID,
		Name:     resp.Name,
		Username: username,
		Role:     resp.Role,
		Token:    resp.Token,
		ClientID: resp.ClientID(),
	}
	if sess.Role != api.RoleAdmin && sess.Role != api.RoleUser {
		return nil, fmt.Errorf("login: unknown role %q", sess.Role)
	}
	if sess.Role == api.RoleUser && sess.ClientID == "" {
		return nil, errors.New("login: account is not linked to a client")
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.db.SetKV(sessionKey, string(raw)); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.install(sess)
	s.logger.Info("logged in", zap.String("username", username), zap.String("role", string(sess.Role)))
	return sess, nil
}

// Restore loads the persisted session. It returns ErrNoSession when there is none.
func (s *Service) Restore() (*Session, error) {
	raw, ok, err := s.db.GetKV(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.Token == "" {
		s.logger.Warn("discarding unreadable session", zap.Error(err))
		_ = s.db.DeleteKV(sessionKey)
		return nil, ErrNoSession
	}
	s.install(&sess)
	return &sess, nil
}

// Logout forgets the session and every cached list.
func (s *Service) Logout() error {
	if err := s.db.DeleteKV(sessionKey); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := s.db.ClearCollections(); err != nil {
		s.logger.Warn("failed to clear cache", zap.Error(err))
	}
	s.install(nil)
	s.logger.Info("logged out")
	return nil
}

func (s *Service) install(sess *Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	token := ""
	if sess != nil {
		token = sess.Token
	}
	s.client.SetToken(token)
	s.bus.Emit(bus.SessionChanged, Change{Session: sess})
}
