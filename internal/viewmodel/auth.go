package viewmodel

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/neardoc"
)

// LoginSnapshot is the login form state. Route is set after a successful login.
type LoginSnapshot struct {
	Loading bool
	Err     string
	Route   neardoc.Route
}

// LoginScreen signs a user in and reports where to go next.
type LoginScreen struct {
	backend Backend
	mu      sync.RWMutex
	snap    LoginSnapshot
}

// NewLoginScreen returns an idle login screen.
func NewLoginScreen(backend Backend) *LoginScreen {
	return &LoginScreen{backend: backend}
}

func (s *LoginScreen) Snapshot() LoginSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *LoginScreen) set(snap LoginSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Submit checks for blank fields before calling the backend.
func (s *LoginScreen) Submit(ctx context.Context, email, password string) (neardoc.Route, bool) {
	if strings.TrimSpace(email) == "" || password == "" {
		s.set(LoginSnapshot{Err: "Email and password are required"})
		return "", false
	}
	s.set(LoginSnapshot{Loading: true})
	route, err := s.backend.Login(ctx, domain.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		s.set(LoginSnapshot{Err: failure("Login failed", err)})
		return "", false
	}
	s.set(LoginSnapshot{Route: route})
	return route, true
}

// RegisterForm mirrors the sign-up fields.
type RegisterForm struct {
	FullName        string
	Email           string
	PhoneNumber     string
	Address         string
	Age             string
	Gender          string
	Password        string
	ConfirmPassword string
}

// RegisterSnapshot is the registration form state.
type RegisterSnapshot struct {
	Loading    bool
	Err        string
	Registered bool
}

// RegisterScreen creates a patient account.
type RegisterScreen struct {
	backend Backend
	mu      sync.RWMutex
	snap    RegisterSnapshot
}

// NewRegisterScreen returns an idle registration screen.
func NewRegisterScreen(backend Backend) *RegisterScreen {
	return &RegisterScreen{backend: backend}
}

func (s *RegisterScreen) Snapshot() RegisterSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *RegisterScreen) set(snap RegisterSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Submit validates f and registers it. It reports whether the account was
// created.
func (s *RegisterScreen) Submit(ctx context.Context, f RegisterForm) bool {
	for _, v := range []string{f.FullName, f.Address, f.PhoneNumber, f.Email, f.Password, f.Age} {
		if strings.TrimSpace(v) == "" {
			s.set(RegisterSnapshot{Err: "All fields are required"})
			return false
		}
	}
	if f.Password != f.ConfirmPassword {
		s.set(RegisterSnapshot{Err: "Passwords do not match"})
		return false
	}
	if _, err := strconv.Atoi(strings.TrimSpace(f.Age)); err != nil {
		s.set(RegisterSnapshot{Err: "Age must be a number"})
		return false
	}

	s.set(RegisterSnapshot{Loading: true})
	_, err := s.backend.Register(ctx, domain.RegisterRequest{
		FullName:    strings.TrimSpace(f.FullName),
		Email:       strings.TrimSpace(f.Email),
		PhoneNumber: strings.TrimSpace(f.PhoneNumber),
		Password:    f.Password,
		Age:         strings.TrimSpace(f.Age),
		Gender:      f.Gender,
	})
	if err != nil {
		s.set(RegisterSnapshot{Err: failure("Registration failed", err)})
		return false
	}
	s.set(RegisterSnapshot{Registered: true})
	return true
}
