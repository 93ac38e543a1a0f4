// Package neardoc exposes one typed method per NearDoc backend endpoint.
package neardoc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/neardoc/internal/apiclient"
	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/session"
	"github.com/wolfman30/neardoc/pkg/logging"
)

var neardocTracer = otel.Tracer("neardoc.internal.neardoc")

// Route is the experience a signed-in user lands on.
type Route string

const (
	RouteDoctor  Route = "doctor"
	RoutePatient Route = "patient"
)

// RouteFor maps a user type onto its landing route.
func RouteFor(t domain.UserType) Route {
	if t == domain.UserTypeDoctor {
		return RouteDoctor
	}
	return RoutePatient
}

// API is the typed NearDoc backend.
type API struct {
	client   *apiclient.Client
	sessions *session.Manager
	logger   *logging.Logger
	newKey   func() string
}

// New wires the API to a transport client and the session it authenticates.
func New(client *apiclient.Client, sessions *session.Manager, logger *logging.Logger) *API {
	if client == nil {
		panic("neardoc: transport client required")
	}
	if sessions == nil {
		sessions = session.NewManager(nil, logger)
	}
	return &API{
		client:   client,
		sessions: sessions,
		logger:   logger.Component("neardoc"),
		newKey:   uuid.NewString,
	}
}

// Session returns the session manager backing this API.
func (a *API) Session() *session.Manager { return a.sessions }

// Login authenticates, stores the session and returns the landing route.
// A {success:false} reply yields *domain.BusinessError with the server's
// message.
func (a *API) Login(ctx context.Context, req domain.LoginRequest) (Route, error) {
	ctx, span := neardocTracer.Start(ctx, "neardoc.login")
	defer span.End()

	if err := domain.Validate(req); err != nil {
		return "", err
	}
	resp, err := apiclient.Post[domain.AuthResponse](ctx, a.client, "/login", req)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("login: %w", err)
	}
	if !resp.Success {
		return "", &domain.BusinessError{Endpoint: "/login", Message: resp.Message}
	}
	if resp.Token == "" {
		return "", &domain.BusinessError{Endpoint: "/login", Message: "login succeeded without a token"}
	}

	s := session.Session{
		Token:    resp.Token,
		UserID:   resp.UserID,
		UserType: domain.ParseUserType(resp.UserType),
	}
	if err := a.sessions.Start(ctx, s); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	span.SetAttributes(attribute.String("neardoc.user_type", string(s.UserType)))
	return RouteFor(s.UserType), nil
}

// Register creates an account. It does not sign the user in.
func (a *API) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	if err := domain.Validate(req); err != nil {
		return domain.AuthResponse{}, err
	}
	resp, err := apiclient.Post[domain.AuthResponse](ctx, a.client, "/register", req)
	if err != nil {
		return domain.AuthResponse{}, fmt.Errorf("register: %w", err)
	}
	if !resp.Success {
		return resp, &domain.BusinessError{Endpoint: "/register", Message: resp.Message}
	}
	return resp, nil
}

// Logout forgets the token, user id and user type.
func (a *API) Logout(ctx context.Context) error {
	return a.sessions.End(ctx)
}

// Appointments lists appointments, scoped to doctorID when non-empty.
func (a *API) Appointments(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	endpoint := "/appointments"
	if doctorID != "" {
		endpoint += "?" + url.Values{"doctorId": {doctorID}}.Encode()
	}
	out, err := apiclient.Get[[]domain.Appointment](ctx, a.client, endpoint, apiclient.WithRoute("/appointments"))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

// Patients lists a doctor's patients.
func (a *API) Patients(ctx context.Context, doctorID string) ([]domain.Patient, error) {
	endpoint := "/patients?" + url.Values{"doctorId": {doctorID}}.Encode()
	out, err := apiclient.Get[[]domain.Patient](ctx, a.client, endpoint, apiclient.WithRoute("/patients"))
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

// Doctor fetches one doctor profile.
func (a *API) Doctor(ctx context.Context, id string) (domain.Doctor, error) {
	out, err := apiclient.Get[domain.Doctor](ctx, a.client, "/doctor/"+url.PathEscape(id), apiclient.WithRoute("/doctor/{id}"))
	if err != nil {
		return domain.Doctor{}, fmt.Errorf("get doctor %s: %w", id, err)
	}
	return out, nil
}

// Patient fetches one patient profile.
func (a *API) Patient(ctx context.Context, id string) (domain.Patient, error) {
	out, err := apiclient.Get[domain.Patient](ctx, a.client, "/patient/"+url.PathEscape(id), apiclient.WithRoute("/patient/{id}"))
	if err != nil {
		return domain.Patient{}, fmt.Errorf("get patient %s: %w", id, err)
	}
	return out, nil
}

// PatientHistory fetches a patient's appointments and prescriptions.
func (a *API) PatientHistory(ctx context.Context, id string) (domain.PatientHistory, error) {
	out, err := apiclient.Get[domain.PatientHistory](ctx, a.client, "/patient-history/"+url.PathEscape(id), apiclient.WithRoute("/patient-history/{id}"))
	if err != nil {
		return domain.PatientHistory{}, fmt.Errorf("get patient history %s: %w", id, err)
	}
	return out, nil
}

// Notifications lists the doctor or patient inbox.
func (a *API) Notifications(ctx context.Context, forDoctor bool) ([]domain.Notification, error) {
	endpoint := "/notifications?" + url.Values{"forDoctor": {strconv.FormatBool(forDoctor)}}.Encode()
	out, err := apiclient.Get[[]domain.Notification](ctx, a.client, endpoint, apiclient.WithRoute("/notifications"))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// Medications lists the signed-in patient's medication history.
func (a *API) Medications(ctx context.Context) ([]domain.Medication, error) {
	out, err := apiclient.Get[[]domain.Medication](ctx, a.client, "/medications")
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return out, nil
}

// Doctors lists the doctor directory.
func (a *API) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	out, err := apiclient.Get[[]domain.Doctor](ctx, a.client, "/doctors")
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return out, nil
}

// BookAppointment books a slot. Each call carries a fresh idempotency key;
// use BookAppointmentWithKey to resubmit the same booking.
func (a *API) BookAppointment(ctx context.Context, req domain.BookingRequest) (domain.BookingResponse, error) {
	return a.BookAppointmentWithKey(ctx, req, a.newKey())
}

// BookAppointmentWithKey books a slot under an explicit idempotency key.
func (a *API) BookAppointmentWithKey(ctx context.Context, req domain.BookingRequest, key string) (domain.BookingResponse, error) {
	ctx, span := neardocTracer.Start(ctx, "neardoc.book_appointment")
	defer span.End()
	span.SetAttributes(
		attribute.String("neardoc.doctor_id", req.DoctorID),
		attribute.String("neardoc.date", req.Date.String()),
	)

	if err := domain.Validate(req); err != nil {
		return domain.BookingResponse{}, err
	}
	resp, err := apiclient.Post[domain.BookingResponse](ctx, a.client, "/book-appointment", req, apiclient.WithIdempotencyKey(key))
	if err != nil {
		span.RecordError(err)
		return domain.BookingResponse{}, fmt.Errorf("book appointment: %w", err)
	}
	if !resp.Success {
		return resp, &domain.BusinessError{Endpoint: "/book-appointment", Message: resp.Message}
	}
	a.logger.Info("appointment booked", "appointment_id", resp.AppointmentID, "doctor_id", req.DoctorID, "date", req.Date.String())
	return resp, nil
}

// UpdateAppointmentStatus moves an appointment to another bucket. The status
// is sent in canonical lower-case form.
func (a *API) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.Status) (domain.BookingResponse, error) {
	req := domain.UpdateAppointmentRequest{AppointmentID: appointmentID, Status: string(status)}
	if err := domain.Validate(req); err != nil {
		return domain.BookingResponse{}, err
	}
	resp, err := apiclient.Post[domain.BookingResponse](ctx, a.client, "/update-appointment-status", req)
	if err != nil {
		return domain.BookingResponse{}, fmt.Errorf("update appointment status: %w", err)
	}
	if !resp.Success {
		return resp, &domain.BusinessError{Endpoint: "/update-appointment-status", Message: resp.Message}
	}
	return resp, nil
}

// AddPrescription submits a prescription after dropping blank medication
// rows.
func (a *API) AddPrescription(ctx context.Context, req domain.AddPrescriptionRequest) (domain.BookingResponse, error) {
	req = req.CompactMedications()
	if err := domain.Validate(req); err != nil {
		return domain.BookingResponse{}, err
	}
	resp, err := apiclient.Post[domain.BookingResponse](ctx, a.client, "/add-prescription", req)
	if err != nil {
		return domain.BookingResponse{}, fmt.Errorf("add prescription: %w", err)
	}
	if !resp.Success {
		return resp, &domain.BusinessError{Endpoint: "/add-prescription", Message: resp.Message}
	}
	return resp, nil
}

// DoctorEarnings fetches a doctor's earnings summary.
func (a *API) DoctorEarnings(ctx context.Context, doctorID string) (domain.DoctorEarnings, error) {
	out, err := apiclient.Get[domain.DoctorEarnings](ctx, a.client, "/doctor-earnings/"+url.PathEscape(doctorID), apiclient.WithRoute("/doctor-earnings/{id}"))
	if err != nil {
		return domain.DoctorEarnings{}, fmt.Errorf("get doctor earnings %s: %w", doctorID, err)
	}
	return out, nil
}
