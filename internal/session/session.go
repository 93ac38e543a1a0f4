// Package session holds the signed-in user's credentials and persists them
// to a key-value store.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/pkg/logging"
)

// Keys under which a session is persisted.
const (
	KeyToken    = "userToken"
	KeyUserID   = "userId"
	KeyUserType = "userType"
)

// Session is the signed-in user.
type Session struct {
	Token    string          `json:"userToken"`
	UserID   string          `json:"userId"`
	UserType domain.UserType `json:"userType"`
}

// LoggedIn reports whether a bearer token is present.
func (s Session) LoggedIn() bool { return s.Token != "" }

// IsDoctor reports whether the session routes to the doctor experience.
func (s Session) IsDoctor() bool { return s.UserType == domain.UserTypeDoctor }

// Store persists a session. Load returns the zero Session and a nil error
// when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// Manager owns the current session and is the transport's token source.
type Manager struct {
	mu      sync.RWMutex
	current Session
	store   Store
	logger  *logging.Logger
}

// NewManager builds a manager backed by store (in-memory when nil).
func NewManager(store Store, logger *logging.Logger) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{store: store, logger: logger.Component("session")}
}

// Restore loads the persisted session, if any, and makes it current.
func (m *Manager) Restore(ctx context.Context) (Session, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("session: restore: %w", err)
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	if s.LoggedIn() {
		m.logger.Debug("session restored", "user_id", s.UserID, "user_type", s.UserType)
	}
	return s, nil
}

// Start persists s and makes it current. The in-memory session is only
// replaced once the store accepted it.
func (m *Manager) Start(ctx context.Context, s Session) error {
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	m.logger.Info("session started", "user_id", s.UserID, "user_type", s.UserType)
	return nil
}

// End clears the persisted and in-memory session.
func (m *Manager) End(ctx context.Context) error {
	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	m.logger.Info("session ended")
	return nil
}

// Current returns a copy of the current session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token implements apiclient.TokenSource.
func (m *Manager) Token() string {
	return m.Current().Token
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu sync.Mutex
	s  Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (st *MemoryStore) Load(context.Context) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s, nil
}

func (st *MemoryStore) Save(_ context.Context, s Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = s
	return nil
}

func (st *MemoryStore) Clear(context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = Session{}
	return nil
}
