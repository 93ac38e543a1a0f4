package viewmodel

import (
	"context"

	"github.com/wolfman30/neardoc/internal/domain"
)

// MedicationsView splits courses into current and past.
type MedicationsView struct {
	Current []domain.Medication
	Past    []domain.Medication
}

// MedicationsScreen splits the patient's medications into current and past
// courses relative to a reference day.
type MedicationsScreen struct {
	backend Backend
	subject Subject
	today   domain.Date
	state   loader[MedicationsView]
}

// NewMedicationsScreen classifies courses against today.
func NewMedicationsScreen(backend Backend, patient Subject, today domain.Date) *MedicationsScreen {
	return &MedicationsScreen{backend: backend, subject: patient, today: today}
}

func (s *MedicationsScreen) Snapshot() State[MedicationsView] { return s.state.snapshot() }

func (s *MedicationsScreen) Load(ctx context.Context) {
	ticket := s.state.begin()
	var meds []domain.Medication
	if s.subject.IsPreview() {
		meds = previewMedications()
	} else {
		var err error
		meds, err = s.backend.Medications(ctx)
		if err != nil {
			s.state.fail(ticket, failure("Failed to load medications", err))
			return
		}
	}
	view := MedicationsView{Current: []domain.Medication{}, Past: []domain.Medication{}}
	for _, m := range meds {
		if m.ActiveOn(s.today) || m.StartDate.After(s.today.Time) {
			view.Current = append(view.Current, m)
		} else {
			view.Past = append(view.Past, m)
		}
	}
	s.state.commit(ticket, view)
}
