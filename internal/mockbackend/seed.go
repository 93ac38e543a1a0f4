package mockbackend

import (
	"time"

	"github.com/wolfman30/neardoc/internal/domain"
)

// Seed accounts. Passwords are for local development only.
const (
	SeedDoctorEmail     = "sarah.johnson@neardoc.test"
	SeedDoctorPassword  = "doctor123"
	SeedPatientEmail    = "john.smith@neardoc.test"
	SeedPatientPassword = "patient123"
	SeedDoctorID        = "4"
	SeedPatientID       = "1"
)

// Seed loads a small clinic: four doctors, three patients, appointments in
// every status around today, notifications and medications.
func Seed(s *Store) error {
	today := s.today()
	day := func(offset int) domain.Date {
		return domain.DateOf(today.AddDate(0, 0, offset))
	}

	doctors := []struct {
		doc domain.Doctor
		fee float64
	}{
		{domain.Doctor{ID: "1", Name: "Dr. Michael Chen", Specialization: "Cardiologist", Hospital: "City Heart Center", Rating: 4.8,
			Availability: strPtr("Mon - Fri"), Time: strPtr("09:00 AM - 05:00 PM"), IsAvailableToday: boolPtr(true)}, 150},
		{domain.Doctor{ID: "2", Name: "Dr. Emily Davis", Specialization: "Dermatologist", Hospital: "Skin Care Clinic", Rating: 4.6,
			Availability: strPtr("Tue - Sat"), Time: strPtr("10:00 AM - 06:00 PM"), IsAvailableToday: boolPtr(false)}, 120},
		{domain.Doctor{ID: "3", Name: "Dr. Robert Wilson", Specialization: "Orthopedic", Hospital: "Bone & Joint Institute", Rating: 4.7}, 130},
		{domain.Doctor{ID: SeedDoctorID, Name: "Dr. Sarah Johnson", Specialization: "General Physician", Hospital: "NearDoc Medical Center", Rating: 4.9,
			Availability: strPtr("Mon - Sat"), Time: strPtr("08:00 AM - 04:00 PM"), IsAvailableToday: boolPtr(true)}, 100},
	}
	for _, d := range doctors {
		s.AddDoctor(d.doc, d.fee)
	}

	patients := []domain.Patient{
		{ID: SeedPatientID, Name: "John Smith", Age: 34, Gender: "Male", Phone: "+1 555 0101", Email: SeedPatientEmail, Address: "12 Elm Street"},
		{ID: "2", Name: "Maria Garcia", Age: 28, Gender: "Female", Phone: "+1 555 0102", Email: "maria.garcia@neardoc.test", Address: "48 Oak Avenue"},
		{ID: "3", Name: "David Lee", Age: 52, Gender: "Male", Phone: "+1 555 0103", Email: "david.lee@neardoc.test", Address: "7 Pine Road"},
	}
	for _, p := range patients {
		s.AddPatient(p)
	}

	if err := s.AddAccount(SeedDoctorID, "Dr. Sarah Johnson", SeedDoctorEmail, SeedDoctorPassword, domain.UserTypeDoctor); err != nil {
		return err
	}
	if err := s.AddAccount(SeedPatientID, "John Smith", SeedPatientEmail, SeedPatientPassword, domain.UserTypePatient); err != nil {
		return err
	}

	appt := func(id, doctorID, patientID string, date domain.Date, at string, status domain.Status) domain.Appointment {
		d, _ := s.Doctor(doctorID)
		p, _ := s.Patient(patientID)
		return domain.Appointment{
			ID: id, DoctorID: d.ID, DoctorName: d.Name, PatientID: p.ID, PatientName: p.Name,
			Specialization: d.Specialization, Hospital: d.Hospital,
			Date: date, Time: at, Status: string(status), Fee: s.doctorFees[d.ID],
		}
	}
	for _, a := range []domain.Appointment{
		appt("101", SeedDoctorID, SeedPatientID, today, "09:30 AM", domain.StatusUpcoming),
		appt("102", SeedDoctorID, "2", today, "11:00 AM", domain.StatusInProgress),
		appt("103", SeedDoctorID, "3", today, "08:00 AM", domain.StatusCompleted),
		appt("104", SeedDoctorID, SeedPatientID, day(-7), "10:00 AM", domain.StatusCompleted),
		appt("105", SeedDoctorID, "2", day(3), "02:00 PM", domain.StatusUpcoming),
		appt("106", "1", SeedPatientID, day(5), "03:30 PM", domain.StatusUpcoming),
		appt("107", "2", SeedPatientID, day(-30), "01:00 PM", domain.StatusCompleted),
	} {
		s.AddAppointment(a)
	}

	for _, n := range []domain.Notification{
		{ID: "n1", Title: "New appointment", Message: "John Smith booked " + today.String() + " at 09:30 AM", Date: today, ForDoctor: boolPtr(true)},
		{ID: "n2", Title: "Lab results ready", Message: "Results for David Lee are available", Date: day(-1), ForDoctor: boolPtr(true)},
		{ID: "n3", Title: "Schedule updated", Message: "Your Saturday hours were confirmed", Date: day(-3), IsRead: true, ForDoctor: boolPtr(true)},
		{ID: "n4", Title: "Appointment reminder", Message: "Dr. Michael Chen on " + day(5).String() + " at 03:30 PM", Date: today, ForDoctor: boolPtr(false)},
		{ID: "n5", Title: "Prescription added", Message: "Dr. Sarah Johnson added a prescription", Date: day(-7), ForDoctor: boolPtr(false)},
	} {
		s.AddNotification(n)
	}

	s.AddMedication(SeedPatientID, domain.Medication{ID: "m1", Name: "Amoxicillin", Dosage: "500mg", Schedule: "Morning, Night",
		StartDate: day(-7), EndDate: day(7)})
	s.AddMedication(SeedPatientID, domain.Medication{ID: "m2", Name: "Vitamin D3", Dosage: "1000 IU", Schedule: "Morning",
		StartDate: day(-30), EndDate: day(60)})
	s.AddMedication(SeedPatientID, domain.Medication{ID: "m3", Name: "Ibuprofen", Dosage: "200mg", Schedule: "As needed",
		StartDate: day(-40), EndDate: day(-33)})

	_, err := s.AddPrescription(domain.AddPrescriptionRequest{
		DoctorID: SeedDoctorID, PatientID: SeedPatientID, Date: day(-7),
		Medications: []domain.PrescriptionMedication{
			{Name: "Amoxicillin", Dosage: "500mg", Instructions: "Twice daily after meals"},
		},
		Notes: "Follow up in two weeks",
	})
	return err
}

// NewSeededStore builds a store with Seed applied.
func NewSeededStore(now func() time.Time, passwordCost int) (*Store, error) {
	s := NewStore(now, passwordCost)
	if err := Seed(s); err != nil {
		return nil, err
	}
	return s, nil
}
