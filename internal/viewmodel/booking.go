package viewmodel

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/wolfman30/neardoc/internal/domain"
)

// TimeSlots are the bookable times shown on the booking screen.
var TimeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "01:00 PM", "01:30 PM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM",
}

// BookingSnapshot is the booking form state.
type BookingSnapshot struct {
	Doctor        domain.Doctor
	Date          domain.Date
	Time          string
	Loading       bool
	Err           string
	Booked        bool
	AppointmentID string
}

// BookingScreen books one doctor for the signed-in patient. A resubmitted
// form reuses its idempotency key until the date or time changes.
type BookingScreen struct {
	backend Backend
	patient Subject
	newKey  func() string

	mu   sync.RWMutex
	snap BookingSnapshot
	key  string
}

// NewBookingScreen prepares a booking with doctor on day.
func NewBookingScreen(backend Backend, patient Subject, doctor domain.Doctor, day domain.Date) *BookingScreen {
	return &BookingScreen{
		backend: backend,
		patient: patient,
		newKey:  uuid.NewString,
		snap:    BookingSnapshot{Doctor: doctor, Date: day},
	}
}

func (s *BookingScreen) Snapshot() BookingSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *BookingScreen) SetDate(day domain.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snap.Date.Equal(day) {
		s.snap.Date, s.key = day, ""
	}
}

// SetTime selects a slot from TimeSlots. It reports false for other values.
func (s *BookingScreen) SetTime(slot string) bool {
	if !slices.Contains(TimeSlots, slot) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Time != slot {
		s.snap.Time, s.key = slot, ""
	}
	return true
}

// Submit books the selected slot. A business rejection leaves the screen
// unbooked with the server's message.
func (s *BookingScreen) Submit(ctx context.Context) bool {
	s.mu.Lock()
	if s.snap.Time == "" {
		s.snap.Err = "Please select a time slot"
		s.mu.Unlock()
		return false
	}
	if s.key == "" {
		s.key = s.newKey()
	}
	req := domain.BookingRequest{
		DoctorID:  s.snap.Doctor.ID,
		PatientID: s.patient.ID(),
		Date:      s.snap.Date,
		Time:      s.snap.Time,
	}
	key := s.key
	s.snap.Loading, s.snap.Err = true, ""
	s.mu.Unlock()

	var (
		resp domain.BookingResponse
		err  error
	)
	if s.patient.IsPreview() {
		resp = domain.BookingResponse{Success: true, AppointmentID: "p-booking"}
	} else {
		resp, err = s.backend.BookAppointmentWithKey(ctx, req, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Loading = false
	if err != nil {
		s.snap.Err = failure("Booking failed", err)
		return false
	}
	s.snap.Booked = true
	s.snap.AppointmentID = resp.AppointmentID
	s.key = ""
	return true
}
