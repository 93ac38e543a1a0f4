package mockbackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/neardoc/internal/domain"
	httpmiddleware "github.com/wolfman30/neardoc/internal/http/middleware"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := domain.Validate(req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	acc, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		s.logger.Warn("login rejected", "email", req.Email)
		writeEnvelope(w, http.StatusUnauthorized, err.Error())
		return
	}
	token, err := httpmiddleware.SignToken(s.secret, acc.ID, string(acc.UserType), s.now(), s.ttl)
	if err != nil {
		s.logger.Error("sign token failed", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthResponse{
		Success:  true,
		Token:    token,
		UserID:   acc.ID,
		UserType: string(acc.UserType),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := domain.Validate(req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.store.Register(req)
	if errors.Is(err, ErrEmailTaken) {
		writeEnvelope(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("register failed", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthResponse{
		Success: true, UserID: id, UserType: string(domain.UserTypePatient),
		Message: "Registration successful",
	})
}

// appointments lists a doctor's schedule when doctorId is given, otherwise
// the caller's own appointments.
func (s *Server) appointments(w http.ResponseWriter, r *http.Request) {
	claims, _ := httpmiddleware.ClaimsFromContext(r.Context())
	doctorID := r.URL.Query().Get("doctorId")
	var keep func(domain.Appointment) bool
	switch {
	case doctorID != "":
		keep = func(a domain.Appointment) bool { return a.DoctorID == doctorID }
	case domain.ParseUserType(claims.UserType) == domain.UserTypeDoctor:
		keep = func(a domain.Appointment) bool { return a.DoctorID == claims.Subject }
	default:
		keep = func(a domain.Appointment) bool { return a.PatientID == claims.Subject }
	}
	writeJSON(w, http.StatusOK, s.store.Appointments(keep))
}

func (s *Server) patients(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctorId")
	if doctorID == "" {
		claims, _ := httpmiddleware.ClaimsFromContext(r.Context())
		doctorID = claims.Subject
	}
	writeJSON(w, http.StatusOK, s.store.PatientsOf(doctorID))
}

func (s *Server) doctor(w http.ResponseWriter, r *http.Request) {
	d, ok := s.store.Doctor(chi.URLParam(r, "id"))
	if !ok {
		writeEnvelope(w, http.StatusNotFound, ErrDoctorNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) patient(w http.ResponseWriter, r *http.Request) {
	p, ok := s.store.Patient(chi.URLParam(r, "id"))
	if !ok {
		writeEnvelope(w, http.StatusNotFound, ErrPatientNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) patientHistory(w http.ResponseWriter, r *http.Request) {
	h, ok := s.store.History(chi.URLParam(r, "id"))
	if !ok {
		writeEnvelope(w, http.StatusNotFound, ErrPatientNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	forDoctor, err := strconv.ParseBool(r.URL.Query().Get("forDoctor"))
	if err != nil {
		claims, _ := httpmiddleware.ClaimsFromContext(r.Context())
		forDoctor = domain.ParseUserType(claims.UserType) == domain.UserTypeDoctor
	}
	writeJSON(w, http.StatusOK, s.store.Notifications(forDoctor))
}

func (s *Server) medications(w http.ResponseWriter, r *http.Request) {
	claims, _ := httpmiddleware.ClaimsFromContext(r.Context())
	patientID := r.URL.Query().Get("patientId")
	if patientID == "" {
		patientID = claims.Subject
	}
	writeJSON(w, http.StatusOK, s.store.Medications(patientID))
}

func (s *Server) doctors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Doctors())
}

func (s *Server) doctorEarnings(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.Earnings(chi.URLParam(r, "id"))
	if !ok {
		writeEnvelope(w, http.StatusNotFound, ErrDoctorNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) bookAppointment(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := domain.Validate(req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := s.store.Book(req, r.Header.Get("Idempotency-Key"))
	switch {
	case errors.Is(err, ErrSlotTaken):
		writeEnvelope(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrKeyReused):
		writeEnvelope(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrPatientNotFound):
		writeEnvelope(w, http.StatusNotFound, err.Error())
	case err != nil:
		s.logger.Error("booking failed", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, "booking failed")
	default:
		s.logger.Info("appointment booked", "appointment_id", resp.AppointmentID, "doctor_id", req.DoctorID)
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAppointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := domain.Validate(req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, err.Error())
		return
	}
	status, _ := domain.ParseStatus(req.Status)
	if err := s.store.UpdateStatus(req.AppointmentID, status); err != nil {
		writeEnvelope(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.BookingResponse{
		Success: true, AppointmentID: req.AppointmentID, Message: "Status updated",
	})
}

func (s *Server) addPrescription(w http.ResponseWriter, r *http.Request) {
	var req domain.AddPrescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := domain.Validate(req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.store.AddPrescription(req)
	if err != nil {
		writeEnvelope(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.BookingResponse{Success: true, AppointmentID: id, Message: "Prescription added"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeEnvelope(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, domain.Envelope{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
