package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/observability/metrics"
	"github.com/wolfman30/neardoc/pkg/logging"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(Config{
		BaseURL: ts.URL + "/api",
		Tokens:  StaticToken(token),
		Logger:  logging.Discard(),
		Metrics: metrics.NewClientMetrics(prometheus.NewRegistry()),
	})
}

const doctorsJSON = `[{"id":"1","name":"Dr. Silva","specialization":"Cardiology","hospital":"Asiri","rating":4.7}]`

func TestGetDecodesAndSendsBearer(t *testing.T) {
	client := newTestClient(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/doctors" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Fatalf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("missing X-Request-ID")
		}
		_, _ = w.Write([]byte(doctorsJSON))
	})

	doctors, err := Get[[]domain.Doctor](context.Background(), client, "/doctors")
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Silva", doctors[0].Name)
	assert.InDelta(t, 4.7, doctors[0].Rating, 0.0001)
}

func TestGetWithoutTokenOmitsAuthorization(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Fatal("Authorization header should be absent without a token")
		}
		_, _ = w.Write([]byte(`[]`))
	})

	doctors, err := Get[[]domain.Doctor](context.Background(), client, "/doctors")
	require.NoError(t, err)
	assert.Empty(t, doctors)
}

func TestGetKeepsCallerQueryString(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("doctorId"); got != "4" {
			t.Fatalf("doctorId = %q", got)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := Get[[]domain.Appointment](context.Background(), client, "/appointments?doctorId=4")
	require.NoError(t, err)
}

func TestPostEncodesBodyWithFieldNames(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("Content-Type = %q", ct)
		}
		if key := r.Header.Get("Idempotency-Key"); key != "k-1" {
			t.Fatalf("Idempotency-Key = %q", key)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["doctorId"] != "1" || body["date"] != "2025-04-22" || body["time"] != "09:00 AM" {
			t.Fatalf("unexpected body: %s", raw)
		}
		_, _ = w.Write([]byte(`{"success":true,"appointmentId":"a9","message":"booked"}`))
	})

	resp, err := Post[domain.BookingResponse](context.Background(), client, "/book-appointment", domain.BookingRequest{
		DoctorID: "1", PatientID: "1", Date: domain.MustParseDate("2025-04-22"), Time: "09:00 AM",
	}, WithIdempotencyKey("k-1"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "a9", resp.AppointmentID)
}

func TestInvalidEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		endpoint string
	}{
		{"control character", "http://localhost:5000/api", "/doctors\x7f\n"},
		{"no scheme", "localhost-no-scheme", "/doctors"},
		{"bad host", "http://[::1", "/doctors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(Config{BaseURL: tt.baseURL, Logger: logging.Discard()})
			_, err := Get[[]domain.Doctor](context.Background(), client, tt.endpoint)
			require.ErrorIs(t, err, ErrInvalidEndpoint)
		})
	}
}

func TestNoData(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	_, err := Get[[]domain.Doctor](context.Background(), client, "/doctors")
	require.ErrorIs(t, err, ErrNoData)
}

func TestDecodingErrorCarriesCause(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","name":"Dr. Silva"}]`))
	})
	doctors, err := Get[[]domain.Doctor](context.Background(), client, "/doctors")
	require.ErrorIs(t, err, ErrDecoding)
	assert.Nil(t, doctors, "no partial result on decode failure")

	var missing *domain.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "specialization", missing.Field)
}

func TestMalformedJSON(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"services":[`))
	})
	_, err := Get[domain.Doctor](context.Background(), client, "/doctor/1")
	require.ErrorIs(t, err, ErrDecoding)
}

func TestNetworkError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := New(Config{BaseURL: "http://" + addr + "/api", Logger: logging.Discard()})
	_, err = Get[[]domain.Doctor](context.Background(), client, "/doctors")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestContextCancelledIsNetworkError(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Get[[]domain.Doctor](ctx, client, "/doctors")
	require.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNon2xxBusinessEnvelopePassesThrough(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	})
	resp, err := Post[domain.AuthResponse](context.Background(), client, "/login", domain.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid credentials", resp.Message)
}

func TestNon2xxUnexpectedStatus(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"database down"}`))
	})
	_, err := Get[[]domain.Doctor](context.Background(), client, "/doctors")
	require.ErrorIs(t, err, ErrUnexpectedStatus)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database down", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "status 500")
}

func TestEncodingError(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})
	_, err := Post[domain.BookingResponse](context.Background(), client, "/book-appointment", map[string]any{"bad": make(chan int)})
	require.ErrorIs(t, err, ErrEncoding)
}

func TestGoDeliversSingleResult(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(doctorsJSON))
	})
	ctx := context.Background()
	ch := Go(ctx, func(ctx context.Context) ([]domain.Doctor, error) {
		return Get[[]domain.Doctor](ctx, client, "/doctors")
	})

	res := <-ch
	require.True(t, res.OK())
	doctors, err := res.Unpack()
	require.NoError(t, err)
	assert.Len(t, doctors, 1)

	_, open := <-ch
	assert.False(t, open, "channel closes after the single result")
}

func TestAwaitHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	ch := Go(context.Background(), func(context.Context) (int, error) {
		<-block
		return 1, nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Await(ctx, ch)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRouteOf(t *testing.T) {
	assert.Equal(t, "/appointments", routeOf("/appointments?doctorId=4"))
	assert.Equal(t, "/doctors", routeOf("/doctors"))
}
