package mockbackend

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/neardoc/internal/http/middleware"
	"github.com/wolfman30/neardoc/internal/observability/metrics"
	"github.com/wolfman30/neardoc/pkg/logging"
)

// Config holds mock backend configuration
type Config struct {
	JWTSecret      string
	TokenTTL       time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.BackendMetrics
	MetricsHandler http.Handler
	// Store defaults to a freshly seeded store.
	Store        *Store
	Now          func() time.Time
	PasswordCost int
}

// Server is an in-process stand-in for the NearDoc backend.
type Server struct {
	store   *Store
	secret  string
	ttl     time.Duration
	now     func() time.Time
	logger  *logging.Logger
	metrics *metrics.BackendMetrics
	promh   http.Handler
}

// New builds a mock backend.
func New(cfg Config) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("mockbackend: jwt secret is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	store := cfg.Store
	if store == nil {
		seeded, err := NewSeededStore(cfg.Now, cfg.PasswordCost)
		if err != nil {
			return nil, err
		}
		store = seeded
	}
	return &Server{
		store:   store,
		secret:  cfg.JWTSecret,
		ttl:     cfg.TokenTTL,
		now:     cfg.Now,
		logger:  cfg.Logger.Component("mockbackend"),
		metrics: cfg.Metrics,
		promh:   cfg.MetricsHandler,
	}, nil
}

func (s *Server) Store() *Store { return s.store }

// Handler returns the chi router with every /api route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.RequestLogger(s.logger))
	r.Use(httpmiddleware.Instrument(s.metrics))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.promh != nil {
		r.Handle("/metrics", s.promh)
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/login", s.login)
		api.Post("/register", s.register)

		api.Group(func(protected chi.Router) {
			protected.Use(httpmiddleware.BearerJWT(s.secret, s.now))
			protected.Get("/appointments", s.appointments)
			protected.Get("/patients", s.patients)
			protected.Get("/doctor/{id}", s.doctor)
			protected.Get("/patient/{id}", s.patient)
			protected.Get("/patient-history/{id}", s.patientHistory)
			protected.Get("/notifications", s.notifications)
			protected.Get("/medications", s.medications)
			protected.Get("/doctors", s.doctors)
			protected.Get("/doctor-earnings/{id}", s.doctorEarnings)
			protected.Post("/book-appointment", s.bookAppointment)
			protected.Post("/update-appointment-status", s.updateAppointmentStatus)
			protected.Post("/add-prescription", s.addPrescription)
		})
	})
	return r
}
