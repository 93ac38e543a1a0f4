package domain

import "strings"

// BookingRequest is the body of POST /book-appointment.
type BookingRequest struct {
	DoctorID  string `json:"doctorId" validate:"required"`
	PatientID string `json:"patientId" validate:"required"`
	Date      Date   `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
}

// BookingResponse is returned by the write endpoints.
type BookingResponse struct {
	Success       bool   `json:"success"`
	AppointmentID string `json:"appointmentId,omitempty"`
	Message       string `json:"message,omitempty"`
}

func (r *BookingResponse) UnmarshalJSON(data []byte) error {
	type plain BookingResponse
	var v plain
	if err := decodeRecord(data, &v, "BookingResponse", "success"); err != nil {
		return err
	}
	*r = BookingResponse(v)
	return nil
}

// UpdateAppointmentRequest is the body of POST /update-appointment-status.
type UpdateAppointmentRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
	Status        string `json:"status" validate:"required,status"`
}

// AddPrescriptionRequest is the body of POST /add-prescription.
type AddPrescriptionRequest struct {
	DoctorID    string                   `json:"doctorId" validate:"required"`
	PatientID   string                   `json:"patientId" validate:"required"`
	Date        Date                     `json:"date" validate:"required"`
	Medications []PrescriptionMedication `json:"medications" validate:"required,min=1,dive"`
	Notes       string                   `json:"notes"`
}

// CompactMedications drops rows the user left entirely blank, keeping order.
func (r AddPrescriptionRequest) CompactMedications() AddPrescriptionRequest {
	kept := make([]PrescriptionMedication, 0, len(r.Medications))
	for _, m := range r.Medications {
		if m.Blank() {
			continue
		}
		kept = append(kept, PrescriptionMedication{
			Name:         trimmed(m.Name),
			Dosage:       trimmed(m.Dosage),
			Instructions: trimmed(m.Instructions),
		})
	}
	r.Medications = kept
	return r
}

func trimmed(s string) string { return strings.TrimSpace(s) }
