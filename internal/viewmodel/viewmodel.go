// Package viewmodel holds screen state as immutable snapshots recomputed
// from backend responses.
package viewmodel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/neardoc"
)

// Backend is the subset of the NearDoc API the screens call.
type Backend interface {
	Login(ctx context.Context, req domain.LoginRequest) (neardoc.Route, error)
	Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
	Logout(ctx context.Context) error
	Appointments(ctx context.Context, doctorID string) ([]domain.Appointment, error)
	Patients(ctx context.Context, doctorID string) ([]domain.Patient, error)
	Doctor(ctx context.Context, id string) (domain.Doctor, error)
	Patient(ctx context.Context, id string) (domain.Patient, error)
	PatientHistory(ctx context.Context, id string) (domain.PatientHistory, error)
	Notifications(ctx context.Context, forDoctor bool) ([]domain.Notification, error)
	Medications(ctx context.Context) ([]domain.Medication, error)
	Doctors(ctx context.Context) ([]domain.Doctor, error)
	BookAppointmentWithKey(ctx context.Context, req domain.BookingRequest, key string) (domain.BookingResponse, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.Status) (domain.BookingResponse, error)
	AddPrescription(ctx context.Context, req domain.AddPrescriptionRequest) (domain.BookingResponse, error)
	DoctorEarnings(ctx context.Context, doctorID string) (domain.DoctorEarnings, error)
}

var _ Backend = (*neardoc.API)(nil)

// Subject is who a screen shows: a live record by id, or built-in preview
// data that never touches the network.
type Subject struct {
	id      string
	preview bool
}

// Live is the record with id, fetched from the backend.
func Live(id string) Subject { return Subject{id: id} }

// Preview shows built-in sample data.
func Preview() Subject { return Subject{preview: true} }

func (s Subject) IsPreview() bool { return s.preview }

// ID is the live record id. It is empty for previews.
func (s Subject) ID() string { return s.id }

func (s Subject) String() string {
	if s.preview {
		return "preview"
	}
	return "live:" + s.id
}

// Generation hands out load tickets. Only the newest ticket is current, so a
// response to a superseded load is dropped.
type Generation struct {
	n atomic.Uint64
}

// Next issues a new ticket and supersedes every earlier one.
func (g *Generation) Next() uint64 { return g.n.Add(1) }

// Current reports whether ticket is still the newest.
func (g *Generation) Current(ticket uint64) bool { return g.n.Load() == ticket }

// State is a screen snapshot.
type State[T any] struct {
	Loading bool
	Err     string
	Data    T
}

// loader guards one screen's state. Data values are replaced on commit and
// never mutated in place.
type loader[T any] struct {
	mu    sync.RWMutex
	gen   Generation
	state State[T]
}

func (l *loader[T]) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	ticket := l.gen.Next()
	l.state.Loading = true
	l.state.Err = ""
	return ticket
}

func (l *loader[T]) commit(ticket uint64, data T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.gen.Current(ticket) {
		return false
	}
	l.state = State[T]{Data: data}
	return true
}

// commitWith applies fn to the current data when ticket is still current.
func (l *loader[T]) commitWith(ticket uint64, fn func(T) T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.gen.Current(ticket) {
		return false
	}
	l.state = State[T]{Data: fn(l.state.Data)}
	return true
}

// fail records msg and keeps the previous data.
func (l *loader[T]) fail(ticket uint64, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.gen.Current(ticket) {
		return false
	}
	l.state.Loading = false
	l.state.Err = msg
	return true
}

func (l *loader[T]) update(fn func(T) T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Data = fn(l.state.Data)
}

// mutate applies a local change and invalidates any load still in flight, so
// an older server response cannot overwrite it.
func (l *loader[T]) mutate(fn func(T) T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen.Next()
	l.state.Loading = false
	l.state.Data = fn(l.state.Data)
}

func (l *loader[T]) snapshot() State[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// failure renders err under prefix. Server business messages are shown as-is.
func failure(prefix string, err error) string {
	var business *domain.BusinessError
	if errors.As(err, &business) {
		return business.Error()
	}
	return prefix + ": " + neardoc.Describe(err)
}
