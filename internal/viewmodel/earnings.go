package viewmodel

import (
	"context"

	"github.com/wolfman30/neardoc/internal/domain"
)

// EarningsScreen shows a doctor's earnings summary.
type EarningsScreen struct {
	backend Backend
	subject Subject
	state   loader[domain.DoctorEarnings]
}

// NewEarningsScreen returns the doctor's earnings summary screen.
func NewEarningsScreen(backend Backend, doctor Subject) *EarningsScreen {
	return &EarningsScreen{backend: backend, subject: doctor}
}

func (s *EarningsScreen) Snapshot() State[domain.DoctorEarnings] { return s.state.snapshot() }

func (s *EarningsScreen) Load(ctx context.Context) {
	ticket := s.state.begin()
	if s.subject.IsPreview() {
		s.state.commit(ticket, previewEarnings())
		return
	}
	earnings, err := s.backend.DoctorEarnings(ctx, s.subject.ID())
	if err != nil {
		s.state.fail(ticket, failure("Failed to load earnings", err))
		return
	}
	s.state.commit(ticket, earnings)
}
