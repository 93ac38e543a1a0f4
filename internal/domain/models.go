// Package domain holds the NearDoc records exchanged with the backend.
package domain

import "strings"

// Doctor is a practitioner listed in the directory.
type Doctor struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Specialization   string  `json:"specialization"`
	Hospital         string  `json:"hospital"`
	Rating           float64 `json:"rating" validate:"gte=0,lte=5"`
	Availability     *string `json:"availability,omitempty"`
	Time             *string `json:"time,omitempty"`
	IsAvailableToday *bool   `json:"isAvailableToday,omitempty"`
}

func (d *Doctor) UnmarshalJSON(data []byte) error {
	type plain Doctor
	var p plain
	if err := decodeRecord(data, &p, "Doctor", "id", "name", "specialization", "hospital", "rating"); err != nil {
		return err
	}
	*d = Doctor(p)
	return nil
}

// AvailableToday is false when the backend omitted the flag.
func (d Doctor) AvailableToday() bool {
	return d.IsAvailableToday != nil && *d.IsAvailableToday
}

// Patient is a registered patient profile.
type Patient struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Age     int    `json:"age,omitempty" validate:"gte=0"`
	Gender  string `json:"gender,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

func (p *Patient) UnmarshalJSON(data []byte) error {
	type plain Patient
	var v plain
	if err := decodeRecord(data, &v, "Patient", "id", "name"); err != nil {
		return err
	}
	*p = Patient(v)
	return nil
}

// Appointment is a booked visit. Time is a display string ("09:00 AM") and is
// never merged into Date.
type Appointment struct {
	ID             string  `json:"id"`
	DoctorID       string  `json:"doctorId"`
	DoctorName     string  `json:"doctorName"`
	PatientID      string  `json:"patientId"`
	PatientName    string  `json:"patientName"`
	Specialization string  `json:"specialization,omitempty"`
	Hospital       string  `json:"hospital,omitempty"`
	Date           Date    `json:"date"`
	Time           string  `json:"time"`
	Status         string  `json:"status"`
	Fee            float64 `json:"fee" validate:"gte=0"`
}

func (a *Appointment) UnmarshalJSON(data []byte) error {
	type plain Appointment
	var p plain
	if err := decodeRecord(data, &p, "Appointment",
		"id", "doctorId", "doctorName", "patientId", "patientName", "date", "time", "status", "fee"); err != nil {
		return err
	}
	*a = Appointment(p)
	return nil
}

// Bucket returns the appointment's status bucket, if recognised. The stored
// status is only lower-cased; padded values such as " completed " match no
// bucket.
func (a Appointment) Bucket() (Status, bool) {
	s := Status(strings.ToLower(a.Status))
	if s.Tab() < 0 {
		return "", false
	}
	return s, true
}

// WithStatus returns a copy carrying status.
func (a Appointment) WithStatus(status Status) Appointment {
	a.Status = string(status)
	return a
}

// PrescriptionMedication is one ordered line of a prescription.
type PrescriptionMedication struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
}

// Blank reports whether every field is empty after trimming.
func (m PrescriptionMedication) Blank() bool {
	return trimmed(m.Name) == "" && trimmed(m.Dosage) == "" && trimmed(m.Instructions) == ""
}

// Prescription is a doctor's order for a patient.
type Prescription struct {
	ID          string                   `json:"id"`
	DoctorID    string                   `json:"doctorId,omitempty"`
	DoctorName  string                   `json:"doctorName,omitempty"`
	PatientID   string                   `json:"patientId,omitempty"`
	PatientName string                   `json:"patientName,omitempty"`
	Date        Date                     `json:"date"`
	Medications []PrescriptionMedication `json:"medications"`
	Notes       string                   `json:"notes,omitempty"`
}

func (p *Prescription) UnmarshalJSON(data []byte) error {
	type plain Prescription
	var v plain
	if err := decodeRecord(data, &v, "Prescription", "id", "date", "medications"); err != nil {
		return err
	}
	*p = Prescription(v)
	return nil
}

// Medication is an entry in a patient's medication history.
type Medication struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Schedule  string `json:"schedule"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
}

func (m *Medication) UnmarshalJSON(data []byte) error {
	type plain Medication
	var v plain
	if err := decodeRecord(data, &v, "Medication", "id", "name", "dosage", "schedule", "startDate", "endDate"); err != nil {
		return err
	}
	*m = Medication(v)
	return nil
}

// ActiveOn reports whether day falls within the course, inclusive.
func (m Medication) ActiveOn(day Date) bool {
	return !day.Before(m.StartDate.Time) && !day.After(m.EndDate.Time)
}

// Notification is an inbox item. IsRead is the only field mutated locally.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Date      Date   `json:"date"`
	IsRead    bool   `json:"isRead"`
	ForDoctor *bool  `json:"forDoctor,omitempty"`
}

func (n *Notification) UnmarshalJSON(data []byte) error {
	type plain Notification
	var v plain
	if err := decodeRecord(data, &v, "Notification", "id", "title", "message", "date", "isRead"); err != nil {
		return err
	}
	*n = Notification(v)
	return nil
}

// PatientHistory bundles a patient's past appointments and prescriptions.
type PatientHistory struct {
	Appointments  []Appointment  `json:"appointments"`
	Prescriptions []Prescription `json:"prescriptions"`
}

func (h *PatientHistory) UnmarshalJSON(data []byte) error {
	type plain PatientHistory
	var v plain
	if err := decodeRecord(data, &v, "PatientHistory", "appointments", "prescriptions"); err != nil {
		return err
	}
	*h = PatientHistory(v)
	return nil
}

// EarningEntry is one paid visit.
type EarningEntry struct {
	PatientName string  `json:"patientName"`
	Date        Date    `json:"date"`
	Time        string  `json:"time"`
	Amount      float64 `json:"amount" validate:"gte=0"`
}

func (e *EarningEntry) UnmarshalJSON(data []byte) error {
	type plain EarningEntry
	var v plain
	if err := decodeRecord(data, &v, "EarningEntry", "patientName", "date", "time", "amount"); err != nil {
		return err
	}
	*e = EarningEntry(v)
	return nil
}

// DoctorEarnings summarises a doctor's income.
type DoctorEarnings struct {
	Today  float64        `json:"today" validate:"gte=0"`
	Total  float64        `json:"total" validate:"gte=0"`
	Recent []EarningEntry `json:"recent"`
}

func (e *DoctorEarnings) UnmarshalJSON(data []byte) error {
	type plain DoctorEarnings
	var v plain
	if err := decodeRecord(data, &v, "DoctorEarnings", "today", "total", "recent"); err != nil {
		return err
	}
	*e = DoctorEarnings(v)
	return nil
}
