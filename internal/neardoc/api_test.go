package neardoc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wolfman30/neardoc/internal/apiclient"
	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/mockbackend"
	"github.com/wolfman30/neardoc/internal/observability/metrics"
	"github.com/wolfman30/neardoc/internal/session"
	"github.com/wolfman30/neardoc/pkg/logging"
)

func newAPI(t *testing.T, handler http.Handler) (*API, *session.Manager) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sessions := session.NewManager(session.NewMemoryStore(), logging.Discard())
	client := apiclient.New(apiclient.Config{
		BaseURL: srv.URL + "/api",
		Tokens:  sessions,
		Logger:  logging.Discard(),
		Metrics: metrics.NewClientMetrics(prometheus.NewRegistry()),
	})
	return New(client, sessions, logging.Discard()), sessions
}

func newMockAPI(t *testing.T) (*API, *mockbackend.Server) {
	t.Helper()
	backend, err := mockbackend.New(mockbackend.Config{
		JWTSecret:    "test-secret",
		Logger:       logging.Discard(),
		Now:          func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) },
		PasswordCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	api, _ := newAPI(t, backend.Handler())
	return api, backend
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestLoginStoresSessionAndRoutesDoctor(t *testing.T) {
	api, sessions := newAPI(t, jsonHandler(http.StatusOK,
		`{"success":true,"token":"abc","userType":"doctor","userId":"4"}`))

	route, err := api.Login(context.Background(), domain.LoginRequest{Email: "d@neardoc.test", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, RouteDoctor, route)

	current := sessions.Current()
	assert.Equal(t, "abc", current.Token)
	assert.Equal(t, "4", current.UserID)
	assert.True(t, current.IsDoctor())
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	api, sessions := newAPI(t, jsonHandler(http.StatusUnauthorized,
		`{"success":false,"message":"Invalid email or password"}`))

	_, err := api.Login(context.Background(), domain.LoginRequest{Email: "d@neardoc.test", Password: "pw"})
	var business *domain.BusinessError
	require.ErrorAs(t, err, &business)
	assert.Equal(t, "Invalid email or password", Describe(err))
	assert.False(t, sessions.Current().LoggedIn())
}

func TestLoginValidationMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	api, _ := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	_, err := api.Login(context.Background(), domain.LoginRequest{Email: "", Password: ""})
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.Has("email"))
	assert.True(t, invalid.Has("password"))
	assert.Zero(t, hits.Load())
}

func TestBookingConflictSurfacesExactMessage(t *testing.T) {
	api, _ := newAPI(t, jsonHandler(http.StatusOK, `{"success":false,"message":"slot taken"}`))

	_, err := api.BookAppointment(context.Background(), domain.BookingRequest{
		DoctorID: "1", PatientID: "1", Date: domain.NewDate(2025, 3, 20), Time: "10:00 AM",
	})
	require.Error(t, err)
	assert.Equal(t, "slot taken", err.Error())
	assert.Equal(t, "slot taken", Describe(err))
}

func TestBookingSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	var gotBody map[string]any
	api, _ := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		jsonHandler(http.StatusOK, `{"success":true,"appointmentId":"a1"}`)(w, r)
	}))
	api.newKey = func() string { return "fixed-key" }

	resp, err := api.BookAppointment(context.Background(), domain.BookingRequest{
		DoctorID: "1", PatientID: "1", Date: domain.NewDate(2025, 3, 20), Time: "10:00 AM",
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", resp.AppointmentID)
	assert.Equal(t, "fixed-key", gotKey)
	assert.Equal(t, "2025-03-20", gotBody["date"])
}

func TestPathIDsAreEscaped(t *testing.T) {
	var gotPath string
	api, _ := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		jsonHandler(http.StatusOK, `{"id":"a/b","name":"X","specialization":"Y","hospital":"Z","rating":4}`)(w, r)
	}))

	_, err := api.Doctor(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/doctor/a%2Fb", gotPath)
}

func TestAddPrescriptionDropsBlankRows(t *testing.T) {
	var gotBody domain.AddPrescriptionRequest
	api, _ := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		jsonHandler(http.StatusOK, `{"success":true}`)(w, r)
	}))

	_, err := api.AddPrescription(context.Background(), domain.AddPrescriptionRequest{
		DoctorID: "4", PatientID: "1", Date: domain.NewDate(2025, 3, 14),
		Medications: []domain.PrescriptionMedication{{Name: " Amoxicillin "}, {}},
	})
	require.NoError(t, err)
	require.Len(t, gotBody.Medications, 1)
	assert.Equal(t, "Amoxicillin", gotBody.Medications[0].Name)
}

func TestAddPrescriptionRequiresAMedication(t *testing.T) {
	api, _ := newAPI(t, http.NotFoundHandler())
	_, err := api.AddPrescription(context.Background(), domain.AddPrescriptionRequest{
		DoctorID: "4", PatientID: "1", Date: domain.NewDate(2025, 3, 14),
		Medications: []domain.PrescriptionMedication{{}},
	})
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.Has("medications"))
}

func TestAgainstMockBackend(t *testing.T) {
	api, backend := newMockAPI(t)
	ctx := context.Background()

	_, err := api.Doctors(ctx)
	require.ErrorIs(t, err, apiclient.ErrUnexpectedStatus)

	route, err := api.Login(ctx, domain.LoginRequest{Email: mockbackend.SeedDoctorEmail, Password: mockbackend.SeedDoctorPassword})
	require.NoError(t, err)
	assert.Equal(t, RouteDoctor, route)

	appts, err := api.Appointments(ctx, mockbackend.SeedDoctorID)
	require.NoError(t, err)
	assert.Len(t, appts, 5)

	patients, err := api.Patients(ctx, mockbackend.SeedDoctorID)
	require.NoError(t, err)
	assert.Len(t, patients, 3)

	_, err = api.UpdateAppointmentStatus(ctx, "101", domain.StatusInProgress)
	require.NoError(t, err)
	updated := backend.Store().Appointments(func(a domain.Appointment) bool { return a.ID == "101" })
	require.Len(t, updated, 1)
	assert.Equal(t, "in progress", updated[0].Status)

	earnings, err := api.DoctorEarnings(ctx, mockbackend.SeedDoctorID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, earnings.Total)

	inbox, err := api.Notifications(ctx, true)
	require.NoError(t, err)
	assert.Len(t, inbox, 3)

	_, err = api.Patient(ctx, "99")
	require.ErrorIs(t, err, apiclient.ErrUnexpectedStatus)
	assert.Equal(t, "patient not found", Describe(err))

	require.NoError(t, api.Logout(ctx))
	assert.False(t, api.Session().Current().LoggedIn())
}

func TestPatientFlowAgainstMockBackend(t *testing.T) {
	api, _ := newMockAPI(t)
	ctx := context.Background()

	route, err := api.Login(ctx, domain.LoginRequest{Email: mockbackend.SeedPatientEmail, Password: mockbackend.SeedPatientPassword})
	require.NoError(t, err)
	assert.Equal(t, RoutePatient, route)

	req := domain.BookingRequest{DoctorID: "2", PatientID: mockbackend.SeedPatientID, Date: domain.NewDate(2025, 3, 21), Time: "11:00 AM"}
	first, err := api.BookAppointmentWithKey(ctx, req, "retry-1")
	require.NoError(t, err)
	again, err := api.BookAppointmentWithKey(ctx, req, "retry-1")
	require.NoError(t, err)
	assert.Equal(t, first.AppointmentID, again.AppointmentID)

	_, err = api.BookAppointment(ctx, req)
	assert.Equal(t, "slot taken", Describe(err))

	meds, err := api.Medications(ctx)
	require.NoError(t, err)
	assert.Len(t, meds, 3)

	history, err := api.PatientHistory(ctx, mockbackend.SeedPatientID)
	require.NoError(t, err)
	assert.Len(t, history.Prescriptions, 1)

	doctor, err := api.Doctor(ctx, "1")
	require.NoError(t, err)
	assert.True(t, doctor.AvailableToday())
}

func TestDescribeTransportKinds(t *testing.T) {
	cases := map[string]error{
		"Invalid URL":                &apiclient.Error{Kind: apiclient.ErrInvalidEndpoint},
		"No data received":           &apiclient.Error{Kind: apiclient.ErrNoData},
		"Failed to decode data":      &apiclient.Error{Kind: apiclient.ErrDecoding},
		"Server returned status 502": &apiclient.Error{Kind: apiclient.ErrUnexpectedStatus, StatusCode: 502},
		"Request cancelled":          &apiclient.Error{Kind: apiclient.ErrNetwork, Err: context.Canceled},
		"boom":                       errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, Describe(err))
	}
	assert.Empty(t, Describe(nil))
}
