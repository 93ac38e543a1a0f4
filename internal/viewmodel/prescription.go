package viewmodel

import (
	"context"
	"sync"

	"github.com/wolfman30/neardoc/internal/domain"
)

// PrescriptionSnapshot is the prescription form state.
type PrescriptionSnapshot struct {
	Rows    []domain.PrescriptionMedication
	Notes   string
	Loading bool
	Err     string
	Saved   bool
}

// PrescriptionScreen edits and submits a prescription for one visit.
type PrescriptionScreen struct {
	backend   Backend
	preview   bool
	doctorID  string
	patientID string
	date      domain.Date

	mu   sync.RWMutex
	snap PrescriptionSnapshot
}

// NewPrescriptionScreen starts with one empty medication row. A preview
// doctor saves without calling the backend.
func NewPrescriptionScreen(backend Backend, doctor Subject, patientID string, date domain.Date) *PrescriptionScreen {
	return &PrescriptionScreen{
		backend:   backend,
		preview:   doctor.IsPreview(),
		doctorID:  doctor.ID(),
		patientID: patientID,
		date:      date,
		snap:      PrescriptionSnapshot{Rows: []domain.PrescriptionMedication{{}}},
	}
}

func (s *PrescriptionScreen) Snapshot() PrescriptionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.Rows = append([]domain.PrescriptionMedication(nil), s.snap.Rows...)
	return snap
}

func (s *PrescriptionScreen) AddRow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Rows = append(append([]domain.PrescriptionMedication(nil), s.snap.Rows...), domain.PrescriptionMedication{})
}

// SetRow replaces row i. Out of range indexes are ignored.
func (s *PrescriptionScreen) SetRow(i int, m domain.PrescriptionMedication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.snap.Rows) {
		return
	}
	rows := append([]domain.PrescriptionMedication(nil), s.snap.Rows...)
	rows[i] = m
	s.snap.Rows = rows
}

// RemoveRow drops row i, keeping at least one row.
func (s *PrescriptionScreen) RemoveRow(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.snap.Rows) || len(s.snap.Rows) == 1 {
		return
	}
	rows := make([]domain.PrescriptionMedication, 0, len(s.snap.Rows)-1)
	rows = append(rows, s.snap.Rows[:i]...)
	s.snap.Rows = append(rows, s.snap.Rows[i+1:]...)
}

func (s *PrescriptionScreen) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Notes = notes
}

func (s *PrescriptionScreen) Submit(ctx context.Context) bool {
	s.mu.Lock()
	req := domain.AddPrescriptionRequest{
		DoctorID:    s.doctorID,
		PatientID:   s.patientID,
		Date:        s.date,
		Medications: s.snap.Rows,
		Notes:       s.snap.Notes,
	}.CompactMedications()
	if len(req.Medications) == 0 || hasUnnamed(req.Medications) {
		s.snap.Err = "Please enter at least one medication name"
		s.mu.Unlock()
		return false
	}
	s.snap.Loading, s.snap.Err = true, ""
	s.mu.Unlock()

	var err error
	if !s.preview {
		_, err = s.backend.AddPrescription(ctx, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Loading = false
	if err != nil {
		s.snap.Err = failure("Failed to save prescription", err)
		return false
	}
	s.snap.Saved = true
	return true
}

func hasUnnamed(meds []domain.PrescriptionMedication) bool {
	for _, m := range meds {
		if m.Name == "" {
			return true
		}
	}
	return false
}
