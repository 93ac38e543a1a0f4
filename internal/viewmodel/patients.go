package viewmodel

import (
	"context"
	"strings"

	"github.com/wolfman30/neardoc/internal/domain"
)

// PatientsView is the filtered patient list.
type PatientsView struct {
	Query   string
	Visible []domain.Patient

	all []domain.Patient
}

// PatientsScreen lists a doctor's patients with a name or phone search.
type PatientsScreen struct {
	backend Backend
	subject Subject
	state   loader[PatientsView]
}

// NewPatientsScreen returns an empty screen; call Load to fetch.
func NewPatientsScreen(backend Backend, doctor Subject) *PatientsScreen {
	return &PatientsScreen{backend: backend, subject: doctor}
}

func (s *PatientsScreen) Snapshot() State[PatientsView] { return s.state.snapshot() }

func (s *PatientsScreen) Load(ctx context.Context) {
	ticket := s.state.begin()
	var patients []domain.Patient
	if s.subject.IsPreview() {
		patients = []domain.Patient{previewPatient()}
	} else {
		var err error
		patients, err = s.backend.Patients(ctx, s.subject.ID())
		if err != nil {
			s.state.fail(ticket, failure("Failed to load patients", err))
			return
		}
	}
	s.state.commitWith(ticket, func(v PatientsView) PatientsView {
		v.all = patients
		return searchPatients(v)
	})
}

func (s *PatientsScreen) SetSearch(query string) {
	s.state.update(func(v PatientsView) PatientsView {
		v.Query = query
		return searchPatients(v)
	})
}

func searchPatients(v PatientsView) PatientsView {
	q := strings.ToLower(v.Query)
	out := make([]domain.Patient, 0, len(v.all))
	for _, p := range v.all {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Phone), q) {
			out = append(out, p)
		}
	}
	v.Visible = out
	return v
}
