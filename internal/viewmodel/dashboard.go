package viewmodel

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/neardoc/internal/appointments"
	"github.com/wolfman30/neardoc/internal/domain"
)

// Dashboard is the patient's home screen.
type Dashboard struct {
	Upcoming       []domain.Appointment
	Doctors        []domain.Doctor
	AvailableToday []domain.Doctor
}

// DashboardScreen fetches the patient's appointments and the doctor
// directory concurrently.
type DashboardScreen struct {
	backend Backend
	subject Subject
	state   loader[Dashboard]
}

// NewDashboardScreen returns the patient's home screen.
func NewDashboardScreen(backend Backend, patient Subject) *DashboardScreen {
	return &DashboardScreen{backend: backend, subject: patient}
}

func (s *DashboardScreen) Snapshot() State[Dashboard] { return s.state.snapshot() }

func (s *DashboardScreen) Load(ctx context.Context) {
	ticket := s.state.begin()
	if s.subject.IsPreview() {
		s.state.commit(ticket, buildDashboard(previewAppointments(), previewDoctors()))
		return
	}

	var (
		appts   []domain.Appointment
		doctors []domain.Doctor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.backend.Appointments(gctx, "")
		if err != nil {
			return loadError{prefix: "Failed to load appointments", err: err}
		}
		appts = out
		return nil
	})
	g.Go(func() error {
		out, err := s.backend.Doctors(gctx)
		if err != nil {
			return loadError{prefix: "Failed to load doctors", err: err}
		}
		doctors = out
		return nil
	})
	if err := g.Wait(); err != nil {
		var le loadError
		if errors.As(err, &le) {
			s.state.fail(ticket, failure(le.prefix, le.err))
		} else {
			s.state.fail(ticket, failure("Failed to load dashboard", err))
		}
		return
	}
	s.state.commit(ticket, buildDashboard(appts, doctors))
}

type loadError struct {
	prefix string
	err    error
}

func (e loadError) Error() string { return e.prefix + ": " + e.err.Error() }

func (e loadError) Unwrap() error { return e.err }

// buildDashboard orders upcoming visits by date. Times are display strings
// and keep their backend order within a day.
func buildDashboard(appts []domain.Appointment, doctors []domain.Doctor) Dashboard {
	upcoming := appointments.WithStatus(appts, domain.StatusUpcoming)
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date.Time)
	})
	available := make([]domain.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d.AvailableToday() {
			available = append(available, d)
		}
	}
	return Dashboard{Upcoming: upcoming, Doctors: doctors, AvailableToday: available}
}
