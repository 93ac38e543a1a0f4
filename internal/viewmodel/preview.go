package viewmodel

import (
	"github.com/wolfman30/neardoc/internal/domain"
)

// Sample records served to Preview subjects.
var previewToday = domain.NewDate(2025, 4, 22)

func previewDoctors() []domain.Doctor {
	yes, no := true, false
	weekdays, hours := "Mon - Fri", "09:00 AM - 05:00 PM"
	return []domain.Doctor{
		{ID: "p-d1", Name: "Dr. Sarah Johnson", Specialization: "General Physician", Hospital: "NearDoc Medical Center",
			Rating: 4.9, Availability: &weekdays, Time: &hours, IsAvailableToday: &yes},
		{ID: "p-d2", Name: "Dr. Michael Chen", Specialization: "Cardiologist", Hospital: "City Heart Center",
			Rating: 4.8, IsAvailableToday: &no},
	}
}

func previewPatient() domain.Patient {
	return domain.Patient{ID: "p-p1", Name: "John Smith", Age: 34, Gender: "Male",
		Phone: "+1 555 0101", Email: "john.smith@example.com", Address: "12 Elm Street"}
}

func previewAppointments() []domain.Appointment {
	base := domain.Appointment{
		DoctorID: "p-d1", DoctorName: "Dr. Sarah Johnson", PatientID: "p-p1", PatientName: "John Smith",
		Specialization: "General Physician", Hospital: "NearDoc Medical Center", Date: previewToday, Fee: 100,
	}
	a1, a2, a3 := base, base, base
	a1.ID, a1.Time, a1.Status = "p-a1", "09:00 AM", "upcoming"
	a2.ID, a2.Time, a2.Status = "p-a2", "10:30 AM", "in progress"
	a2.PatientID, a2.PatientName = "p-p2", "Maria Garcia"
	a3.ID, a3.Time, a3.Status = "p-a3", "08:00 AM", "completed"
	a3.Date = domain.NewDate(2025, 4, 15)
	return []domain.Appointment{a1, a2, a3}
}

func previewHistory() domain.PatientHistory {
	return domain.PatientHistory{
		Appointments: previewAppointments(),
		Prescriptions: []domain.Prescription{{
			ID: "p-rx1", DoctorName: "Dr. Sarah Johnson", PatientName: "John Smith", Date: domain.NewDate(2025, 4, 15),
			Medications: []domain.PrescriptionMedication{{Name: "Amoxicillin", Dosage: "500mg", Instructions: "Twice daily"}},
			Notes: "Follow up in two weeks",
		}},
	}
}

func previewNotifications() []domain.Notification {
	return []domain.Notification{
		{ID: "p-n1", Title: "New appointment", Message: "John Smith booked 09:00 AM", Date: previewToday},
		{ID: "p-n2", Title: "Lab results ready", Message: "Results for Maria Garcia are available",
			Date: domain.NewDate(2025, 4, 20), IsRead: true},
	}
}

func previewEarnings() domain.DoctorEarnings {
	return domain.DoctorEarnings{
		Today: 100, Total: 2450,
		Recent: []domain.EarningEntry{
			{PatientName: "John Smith", Date: previewToday, Time: "08:00 AM", Amount: 100},
			{PatientName: "Maria Garcia", Date: domain.NewDate(2025, 4, 21), Time: "02:00 PM", Amount: 100},
		},
	}
}

func previewMedications() []domain.Medication {
	return []domain.Medication{
		{ID: "p-m1", Name: "Amoxicillin", Dosage: "500mg", Schedule: "Morning, Night",
			StartDate: domain.NewDate(2025, 4, 15), EndDate: domain.NewDate(2025, 4, 29)},
		{ID: "p-m2", Name: "Ibuprofen", Dosage: "200mg", Schedule: "As needed",
			StartDate: domain.NewDate(2025, 3, 1), EndDate: domain.NewDate(2025, 3, 7)},
	}
}
