package viewmodel

import (
	"context"

	"github.com/wolfman30/neardoc/internal/appointments"
	"github.com/wolfman30/neardoc/internal/domain"
)

// AppointmentsView is the doctor's schedule for one day.
type AppointmentsView struct {
	Date    domain.Date
	Tab     int
	Query   string
	Day     []domain.Appointment
	Visible []domain.Appointment
	Counts  map[domain.Status]int
	Notice  string

	all []domain.Appointment
}

// AppointmentsScreen lists a doctor's appointments by day, status tab and
// patient search.
type AppointmentsScreen struct {
	backend Backend
	subject Subject
	state   loader[AppointmentsView]
}

// NewAppointmentsScreen shows doctor's schedule for day on the Upcoming tab.
func NewAppointmentsScreen(backend Backend, doctor Subject, day domain.Date) *AppointmentsScreen {
	s := &AppointmentsScreen{backend: backend, subject: doctor}
	s.state.state.Data = recompute(AppointmentsView{Date: day}, nil)
	return s
}

func (s *AppointmentsScreen) Snapshot() State[AppointmentsView] { return s.state.snapshot() }

// Load fetches the doctor's appointments, dropping the result if a newer
// load or a status change has happened meanwhile.
func (s *AppointmentsScreen) Load(ctx context.Context) {
	ticket := s.state.begin()
	var appts []domain.Appointment
	if s.subject.IsPreview() {
		appts = previewAppointments()
	} else {
		var err error
		appts, err = s.backend.Appointments(ctx, s.subject.ID())
		if err != nil {
			s.state.fail(ticket, failure("Failed to load appointments", err))
			return
		}
	}
	s.state.commitWith(ticket, func(v AppointmentsView) AppointmentsView {
		v.all = appts
		return recompute(v, appts)
	})
}

func (s *AppointmentsScreen) SetDate(day domain.Date) {
	s.reshape(func(v AppointmentsView) AppointmentsView { v.Date = day; return v })
}

// SetTab selects 0 Upcoming, 1 In Progress or 2 Completed. Other values are
// ignored.
func (s *AppointmentsScreen) SetTab(tab int) {
	if _, ok := domain.StatusForTab(tab); !ok {
		return
	}
	s.reshape(func(v AppointmentsView) AppointmentsView { v.Tab = tab; return v })
}

func (s *AppointmentsScreen) SetSearch(query string) {
	s.reshape(func(v AppointmentsView) AppointmentsView { v.Query = query; return v })
}

func (s *AppointmentsScreen) reshape(fn func(AppointmentsView) AppointmentsView) {
	s.state.update(func(v AppointmentsView) AppointmentsView {
		v = fn(v)
		return recompute(v, v.all)
	})
}

// UpdateStatus moves one appointment to status and refreshes the view.
func (s *AppointmentsScreen) UpdateStatus(ctx context.Context, appointmentID string, status domain.Status) bool {
	if !s.subject.IsPreview() {
		if _, err := s.backend.UpdateAppointmentStatus(ctx, appointmentID, status); err != nil {
			s.state.update(func(v AppointmentsView) AppointmentsView {
				v.Notice = failure("Failed to update appointment", err)
				return v
			})
			return false
		}
	}
	s.state.mutate(func(v AppointmentsView) AppointmentsView {
		next := make([]domain.Appointment, len(v.all))
		for i, a := range v.all {
			if a.ID == appointmentID {
				a = a.WithStatus(status)
			}
			next[i] = a
		}
		v.all = next
		v = recompute(v, next)
		v.Notice = "Updated Successfully!"
		return v
	})
	return true
}

func recompute(v AppointmentsView, all []domain.Appointment) AppointmentsView {
	status, _ := domain.StatusForTab(v.Tab)
	v.Day = appointments.OnDate(all, v.Date)
	v.Counts = appointments.CountByStatus(v.Day)
	v.Visible = appointments.Filter(all, appointments.Criteria{Date: v.Date, Status: status, Query: v.Query})
	v.Notice = ""
	return v
}
