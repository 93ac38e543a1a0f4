package viewmodel

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/neardoc/internal/appointments"
	"github.com/wolfman30/neardoc/internal/domain"
)

// PatientRecord is one patient's profile with completed visits and
// prescriptions.
type PatientRecord struct {
	Patient       domain.Patient
	Visits        []domain.Appointment
	Prescriptions []domain.Prescription
}

// PatientHistoryScreen shows a patient's profile and completed visits.
type PatientHistoryScreen struct {
	backend Backend
	subject Subject
	state   loader[PatientRecord]
}

// NewPatientHistoryScreen returns the history screen for patient.
func NewPatientHistoryScreen(backend Backend, patient Subject) *PatientHistoryScreen {
	return &PatientHistoryScreen{backend: backend, subject: patient}
}

func (s *PatientHistoryScreen) Snapshot() State[PatientRecord] { return s.state.snapshot() }

func (s *PatientHistoryScreen) Load(ctx context.Context) {
	ticket := s.state.begin()
	if s.subject.IsPreview() {
		s.state.commit(ticket, buildRecord(previewPatient(), previewHistory()))
		return
	}

	var (
		patient domain.Patient
		history domain.PatientHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.backend.Patient(gctx, s.subject.ID())
		if err != nil {
			return loadError{prefix: "Failed to load patient", err: err}
		}
		patient = out
		return nil
	})
	g.Go(func() error {
		out, err := s.backend.PatientHistory(gctx, s.subject.ID())
		if err != nil {
			return loadError{prefix: "Failed to load patient history", err: err}
		}
		history = out
		return nil
	})
	if err := g.Wait(); err != nil {
		var le loadError
		if errors.As(err, &le) {
			s.state.fail(ticket, failure(le.prefix, le.err))
		} else {
			s.state.fail(ticket, failure("Failed to load patient history", err))
		}
		return
	}
	s.state.commit(ticket, buildRecord(patient, history))
}

func buildRecord(p domain.Patient, h domain.PatientHistory) PatientRecord {
	rx := h.Prescriptions
	if rx == nil {
		rx = []domain.Prescription{}
	}
	return PatientRecord{Patient: p, Visits: appointments.Completed(h.Appointments), Prescriptions: rx}
}
