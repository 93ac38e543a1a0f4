package viewmodel

import (
	"context"

	"github.com/wolfman30/neardoc/internal/domain"
)

// Profile holds whichever record matches the signed-in user type.
type Profile struct {
	UserType domain.UserType
	Doctor   *domain.Doctor
	Patient  *domain.Patient
}

// ProfileScreen shows the signed-in user and handles logout.
type ProfileScreen struct {
	backend  Backend
	subject  Subject
	userType domain.UserType
	state    loader[Profile]
}

// NewProfileScreen loads the doctor or patient record for subject.
func NewProfileScreen(backend Backend, subject Subject, userType domain.UserType) *ProfileScreen {
	return &ProfileScreen{backend: backend, subject: subject, userType: userType}
}

func (s *ProfileScreen) Snapshot() State[Profile] { return s.state.snapshot() }

func (s *ProfileScreen) Load(ctx context.Context) {
	ticket := s.state.begin()
	profile := Profile{UserType: s.userType}
	switch {
	case s.subject.IsPreview() && s.userType == domain.UserTypeDoctor:
		d := previewDoctors()[0]
		profile.Doctor = &d
	case s.subject.IsPreview():
		p := previewPatient()
		profile.Patient = &p
	case s.userType == domain.UserTypeDoctor:
		d, err := s.backend.Doctor(ctx, s.subject.ID())
		if err != nil {
			s.state.fail(ticket, failure("Failed to load profile", err))
			return
		}
		profile.Doctor = &d
	default:
		p, err := s.backend.Patient(ctx, s.subject.ID())
		if err != nil {
			s.state.fail(ticket, failure("Failed to load profile", err))
			return
		}
		profile.Patient = &p
	}
	s.state.commit(ticket, profile)
}

// Logout ends the session. The loaded profile is cleared even if the
// session store fails.
func (s *ProfileScreen) Logout(ctx context.Context) error {
	s.state.gen.Next()
	s.state.update(func(Profile) Profile { return Profile{} })
	if s.subject.IsPreview() {
		return nil
	}
	return s.backend.Logout(ctx)
}
