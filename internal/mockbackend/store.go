package mockbackend

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wolfman30/neardoc/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailTaken         = errors.New("An account with this email already exists")
	ErrSlotTaken          = errors.New("slot taken")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrAppointmentMissing = errors.New("appointment not found")
	ErrKeyReused          = errors.New("idempotency key already used for a different booking")
)

// booking is the request and successful response recorded under an
// idempotency key.
type booking struct {
	req  domain.BookingRequest
	resp domain.BookingResponse
}

func (b booking) matches(req domain.BookingRequest) bool {
	return b.req.DoctorID == req.DoctorID && b.req.PatientID == req.PatientID &&
		b.req.Date.Equal(req.Date) && b.req.Time == req.Time
}

type account struct {
	ID       string
	Name     string
	Email    string
	Hash     []byte
	UserType domain.UserType
}

// Store is the mock backend's in-memory state.
type Store struct {
	mu            sync.RWMutex
	accounts      map[string]*account
	doctors       []domain.Doctor
	doctorFees    map[string]float64
	patients      []domain.Patient
	appointments  []domain.Appointment
	prescriptions []domain.Prescription
	notifications []domain.Notification
	medications   map[string][]domain.Medication
	bookings      map[string]booking
	passwordCost  int
	now           func() time.Time
}

// NewStore creates an empty store.
func NewStore(now func() time.Time, passwordCost int) *Store {
	if now == nil {
		now = time.Now
	}
	if passwordCost == 0 {
		passwordCost = bcrypt.DefaultCost
	}
	return &Store{
		accounts:     make(map[string]*account),
		doctorFees:   make(map[string]float64),
		medications:  make(map[string][]domain.Medication),
		bookings:     make(map[string]booking),
		passwordCost: passwordCost,
		now:          now,
	}
}

func (s *Store) today() domain.Date {
	return domain.DateOf(s.now())
}

// AddAccount registers credentials for an existing doctor or patient id.
func (s *Store) AddAccount(id, name, email, password string, userType domain.UserType) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := s.accounts[key]; exists {
		return ErrEmailTaken
	}
	s.accounts[key] = &account{ID: id, Name: name, Email: email, Hash: hash, UserType: userType}
	return nil
}

// AddDoctor lists a doctor with a consultation fee.
func (s *Store) AddDoctor(d domain.Doctor, fee float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = append(s.doctors, d)
	s.doctorFees[d.ID] = fee
}

func (s *Store) AddPatient(p domain.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = append(s.patients, p)
}

func (s *Store) AddAppointment(a domain.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, a)
}

func (s *Store) AddNotification(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}

func (s *Store) AddMedication(patientID string, m domain.Medication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medications[patientID] = append(s.medications[patientID], m)
}

// Authenticate checks an email/password pair.
func (s *Store) Authenticate(email, password string) (account, error) {
	s.mu.RLock()
	acc, ok := s.accounts[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.Hash, []byte(password)); err != nil {
		return account{}, ErrInvalidCredentials
	}
	return *acc, nil
}

// Register creates a patient account and profile.
func (s *Store) Register(req domain.RegisterRequest) (string, error) {
	id := uuid.NewString()
	if err := s.AddAccount(id, req.FullName, req.Email, req.Password, domain.UserTypePatient); err != nil {
		return "", err
	}
	p := domain.Patient{ID: id, Name: req.FullName, Gender: req.Gender, Phone: req.PhoneNumber, Email: req.Email}
	if age, err := parseAge(req.Age); err == nil {
		p.Age = age
	}
	s.AddPatient(p)
	return id, nil
}

func (s *Store) Doctors() []domain.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Doctor(nil), s.doctors...)
}

func (s *Store) Doctor(id string) (domain.Doctor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doctorLocked(id)
}

func (s *Store) doctorLocked(id string) (domain.Doctor, bool) {
	for _, d := range s.doctors {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Doctor{}, false
}

func (s *Store) Patient(id string) (domain.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patientLocked(id)
}

func (s *Store) patientLocked(id string) (domain.Patient, bool) {
	for _, p := range s.patients {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Patient{}, false
}

// PatientsOf returns patients with at least one appointment with doctorID,
// in first-seen order.
func (s *Store) PatientsOf(doctorID string) []domain.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	out := []domain.Patient{}
	for _, a := range s.appointments {
		if a.DoctorID != doctorID || seen[a.PatientID] {
			continue
		}
		seen[a.PatientID] = true
		if p, ok := s.patientLocked(a.PatientID); ok {
			out = append(out, p)
		}
	}
	return out
}

// Appointments returns appointments matching keep, in booking order.
func (s *Store) Appointments(keep func(domain.Appointment) bool) []domain.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Appointment{}
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// Book creates an upcoming appointment. Only successful bookings are
// recorded under their idempotency key: repeating the key with the same
// request returns the recorded response without booking again, and
// repeating it with a different request fails with ErrKeyReused.
func (s *Store) Book(req domain.BookingRequest, key string) (domain.BookingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key != "" {
		if prior, ok := s.bookings[key]; ok {
			if !prior.matches(req) {
				return domain.BookingResponse{}, ErrKeyReused
			}
			return prior.resp, nil
		}
	}
	doctor, ok := s.doctorLocked(req.DoctorID)
	if !ok {
		return domain.BookingResponse{}, ErrDoctorNotFound
	}
	patient, ok := s.patientLocked(req.PatientID)
	if !ok {
		return domain.BookingResponse{}, ErrPatientNotFound
	}
	for _, a := range s.appointments {
		if a.DoctorID == req.DoctorID && a.Date.Equal(req.Date) && strings.EqualFold(a.Time, req.Time) {
			return domain.BookingResponse{}, ErrSlotTaken
		}
	}
	appt := domain.Appointment{
		ID:             uuid.NewString(),
		DoctorID:       doctor.ID,
		DoctorName:     doctor.Name,
		PatientID:      patient.ID,
		PatientName:    patient.Name,
		Specialization: doctor.Specialization,
		Hospital:       doctor.Hospital,
		Date:           req.Date,
		Time:           req.Time,
		Status:         string(domain.StatusUpcoming),
		Fee:            s.doctorFees[doctor.ID],
	}
	s.appointments = append(s.appointments, appt)
	resp := domain.BookingResponse{Success: true, AppointmentID: appt.ID, Message: "Appointment booked successfully"}
	if key != "" {
		s.bookings[key] = booking{req: req, resp: resp}
	}
	s.notifications = append(s.notifications, domain.Notification{
		ID:        uuid.NewString(),
		Title:     "New appointment",
		Message:   patient.Name + " booked " + req.Date.String() + " at " + req.Time,
		Date:      s.today(),
		ForDoctor: boolPtr(true),
	})
	return resp, nil
}

// UpdateStatus moves an appointment into status.
func (s *Store) UpdateStatus(appointmentID string, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == appointmentID {
			s.appointments[i] = s.appointments[i].WithStatus(status)
			return nil
		}
	}
	return ErrAppointmentMissing
}

// AddPrescription stores a prescription and returns its id.
func (s *Store) AddPrescription(req domain.AddPrescriptionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doctor, ok := s.doctorLocked(req.DoctorID)
	if !ok {
		return "", ErrDoctorNotFound
	}
	patient, ok := s.patientLocked(req.PatientID)
	if !ok {
		return "", ErrPatientNotFound
	}
	p := domain.Prescription{
		ID:          uuid.NewString(),
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Date:        req.Date,
		Medications: append([]domain.PrescriptionMedication(nil), req.Medications...),
		Notes:       req.Notes,
	}
	s.prescriptions = append(s.prescriptions, p)
	return p.ID, nil
}

// History returns a patient's appointments and prescriptions.
func (s *Store) History(patientID string) (domain.PatientHistory, bool) {
	if _, ok := s.Patient(patientID); !ok {
		return domain.PatientHistory{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := domain.PatientHistory{Appointments: []domain.Appointment{}, Prescriptions: []domain.Prescription{}}
	for _, a := range s.appointments {
		if a.PatientID == patientID {
			h.Appointments = append(h.Appointments, a)
		}
	}
	for _, p := range s.prescriptions {
		if p.PatientID == patientID {
			h.Prescriptions = append(h.Prescriptions, p)
		}
	}
	return h, true
}

// Notifications returns the inbox for one audience.
func (s *Store) Notifications(forDoctor bool) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Notification{}
	for _, n := range s.notifications {
		audience := n.ForDoctor != nil && *n.ForDoctor
		if audience == forDoctor {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) Medications(patientID string) []domain.Medication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Medication{}, s.medications[patientID]...)
}

// Earnings sums completed appointment fees for a doctor. Recent lists the
// ten latest completed visits, newest first.
func (s *Store) Earnings(doctorID string) (domain.DoctorEarnings, bool) {
	if _, ok := s.Doctor(doctorID); !ok {
		return domain.DoctorEarnings{}, false
	}
	today := s.today()
	completed := s.Appointments(func(a domain.Appointment) bool {
		st, ok := a.Bucket()
		return a.DoctorID == doctorID && ok && st == domain.StatusCompleted
	})
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Date.After(completed[j].Date.Time)
	})

	out := domain.DoctorEarnings{Recent: []domain.EarningEntry{}}
	for i, a := range completed {
		out.Total += a.Fee
		if a.Date.Equal(today) {
			out.Today += a.Fee
		}
		if i < 10 {
			out.Recent = append(out.Recent, domain.EarningEntry{
				PatientName: a.PatientName, Date: a.Date, Time: a.Time, Amount: a.Fee,
			})
		}
	}
	return out, true
}

func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || age < 0 {
		return 0, errors.New("invalid age")
	}
	return age, nil
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
