package viewmodel

import (
	"context"
	"sync"

	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/neardoc"
)

// fakeBackend serves canned data. Calls to a method listed in gates block
// until the gate channel is closed or receives.
type fakeBackend struct {
	mu sync.Mutex

	route         neardoc.Route
	appointments  []domain.Appointment
	doctors       []domain.Doctor
	patients      []domain.Patient
	patient       domain.Patient
	doctor        domain.Doctor
	history       domain.PatientHistory
	notifications []domain.Notification
	medications   []domain.Medication
	earnings      domain.DoctorEarnings

	errs  map[string]error
	gates map[string]chan struct{}
	calls map[string]int

	bookingKeys   []string
	prescriptions []domain.AddPrescriptionRequest
	loggedOut     bool
}

func newFake() *fakeBackend {
	return &fakeBackend{
		errs:  map[string]error{},
		gates: map[string]chan struct{}{},
		calls: map[string]int{},
	}
}

func (f *fakeBackend) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls[name]++
	gate := f.gates[name]
	err := f.errs[name]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Login(ctx context.Context, _ domain.LoginRequest) (neardoc.Route, error) {
	if err := f.enter(ctx, "Login"); err != nil {
		return "", err
	}
	return f.route, nil
}

func (f *fakeBackend) Register(ctx context.Context, _ domain.RegisterRequest) (domain.AuthResponse, error) {
	if err := f.enter(ctx, "Register"); err != nil {
		return domain.AuthResponse{}, err
	}
	return domain.AuthResponse{Success: true}, nil
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.loggedOut = true
	f.mu.Unlock()
	return f.enter(ctx, "Logout")
}

// Appointments captures its result before waiting on a gate, so a gated call
// returns the data that was current when it started.
func (f *fakeBackend) Appointments(ctx context.Context, _ string) ([]domain.Appointment, error) {
	f.mu.Lock()
	out := f.appointments
	f.mu.Unlock()
	if err := f.enter(ctx, "Appointments"); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeBackend) Patients(ctx context.Context, _ string) ([]domain.Patient, error) {
	if err := f.enter(ctx, "Patients"); err != nil {
		return nil, err
	}
	return f.patients, nil
}

func (f *fakeBackend) Doctor(ctx context.Context, _ string) (domain.Doctor, error) {
	if err := f.enter(ctx, "Doctor"); err != nil {
		return domain.Doctor{}, err
	}
	return f.doctor, nil
}

func (f *fakeBackend) Patient(ctx context.Context, _ string) (domain.Patient, error) {
	if err := f.enter(ctx, "Patient"); err != nil {
		return domain.Patient{}, err
	}
	return f.patient, nil
}

func (f *fakeBackend) PatientHistory(ctx context.Context, _ string) (domain.PatientHistory, error) {
	if err := f.enter(ctx, "PatientHistory"); err != nil {
		return domain.PatientHistory{}, err
	}
	return f.history, nil
}

func (f *fakeBackend) Notifications(ctx context.Context, _ bool) ([]domain.Notification, error) {
	if err := f.enter(ctx, "Notifications"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Notification(nil), f.notifications...), nil
}

func (f *fakeBackend) Medications(ctx context.Context) ([]domain.Medication, error) {
	if err := f.enter(ctx, "Medications"); err != nil {
		return nil, err
	}
	return f.medications, nil
}

func (f *fakeBackend) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	if err := f.enter(ctx, "Doctors"); err != nil {
		return nil, err
	}
	return f.doctors, nil
}

func (f *fakeBackend) BookAppointmentWithKey(ctx context.Context, _ domain.BookingRequest, key string) (domain.BookingResponse, error) {
	f.mu.Lock()
	f.bookingKeys = append(f.bookingKeys, key)
	f.mu.Unlock()
	if err := f.enter(ctx, "Book"); err != nil {
		return domain.BookingResponse{}, err
	}
	return domain.BookingResponse{Success: true, AppointmentID: "new-1"}, nil
}

func (f *fakeBackend) UpdateAppointmentStatus(ctx context.Context, id string, _ domain.Status) (domain.BookingResponse, error) {
	if err := f.enter(ctx, "UpdateStatus"); err != nil {
		return domain.BookingResponse{}, err
	}
	return domain.BookingResponse{Success: true, AppointmentID: id}, nil
}

func (f *fakeBackend) AddPrescription(ctx context.Context, req domain.AddPrescriptionRequest) (domain.BookingResponse, error) {
	f.mu.Lock()
	f.prescriptions = append(f.prescriptions, req)
	f.mu.Unlock()
	if err := f.enter(ctx, "AddPrescription"); err != nil {
		return domain.BookingResponse{}, err
	}
	return domain.BookingResponse{Success: true}, nil
}

func (f *fakeBackend) DoctorEarnings(ctx context.Context, _ string) (domain.DoctorEarnings, error) {
	if err := f.enter(ctx, "DoctorEarnings"); err != nil {
		return domain.DoctorEarnings{}, err
	}
	return f.earnings, nil
}
