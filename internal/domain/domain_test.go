package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.April, 22)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-04-22"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(d))
	assert.Equal(t, time.UTC, back.Location())
}

func TestDateRejectsTimestamps(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"2025-04-22T10:00:00Z"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20250422`), &d))
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2025, time.April, 22, 23, 30, 0, 0, loc)
	assert.Equal(t, "2025-04-22", DateOf(late).String())
	assert.Equal(t, "", DateOf(time.Time{}).String())
}

func TestAppointmentRoundTrip(t *testing.T) {
	original := Appointment{
		ID:             "a1",
		DoctorID:       "4",
		DoctorName:     "Dr. Silva",
		PatientID:      "1",
		PatientName:    "Nimal Perera",
		Specialization: "Cardiology",
		Hospital:       "Lanka Hospitals",
		Date:           NewDate(2025, time.April, 22),
		Time:           "09:00 AM",
		Status:         "Upcoming",
		Fee:            2500,
	}
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Appointment
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestAppointmentMissingFieldFails(t *testing.T) {
	payload := `{"id":"a1","doctorId":"4","doctorName":"Dr. Silva","patientId":"1","patientName":"N","date":"2025-04-22","status":"upcoming","fee":10}`
	var appt Appointment
	err := json.Unmarshal([]byte(payload), &appt)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "time", missing.Field)
	assert.Equal(t, Appointment{}, appt, "no partial record on failure")
}

func TestAppointmentNullFieldFails(t *testing.T) {
	payload := `{"id":"a1","doctorId":"4","doctorName":"D","patientId":"1","patientName":"N","date":null,"time":"9","status":"upcoming","fee":10}`
	var appt Appointment
	var missing *MissingFieldError
	require.ErrorAs(t, json.Unmarshal([]byte(payload), &appt), &missing)
	assert.Equal(t, "date", missing.Field)
}

func TestAppointmentNegativeFeeFails(t *testing.T) {
	payload := `{"id":"a1","doctorId":"4","doctorName":"D","patientId":"1","patientName":"N","date":"2025-04-22","time":"9","status":"upcoming","fee":-1}`
	var appt Appointment
	var verr *ValidationError
	require.ErrorAs(t, json.Unmarshal([]byte(payload), &appt), &verr)
	assert.True(t, verr.Has("fee"))
}

func TestSliceDecodeFailsAsAWhole(t *testing.T) {
	payload := `[{"id":"d1","name":"A","specialization":"GP","hospital":"H","rating":4.5},{"id":"d2","name":"B"}]`
	var doctors []Doctor
	err := json.Unmarshal([]byte(payload), &doctors)
	require.Error(t, err)
}

func TestDoctorRatingBounds(t *testing.T) {
	var d Doctor
	err := json.Unmarshal([]byte(`{"id":"d1","name":"A","specialization":"GP","hospital":"H","rating":5.5}`), &d)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("rating"))

	require.NoError(t, json.Unmarshal([]byte(`{"id":"d1","name":"A","specialization":"GP","hospital":"H","rating":4.8,"isAvailableToday":true}`), &d))
	assert.True(t, d.AvailableToday())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"Upcoming", StatusUpcoming, true},
		{"IN PROGRESS", StatusInProgress, true},
		{" completed ", StatusCompleted, true},
		{"cancelled", "", false},
		{"in-progress", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestAppointmentBucketOnlyLowerCases(t *testing.T) {
	got, ok := Appointment{Status: "In Progress"}.Bucket()
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, got)

	_, ok = Appointment{Status: " Completed "}.Bucket()
	assert.False(t, ok)
}

func TestStatusTabs(t *testing.T) {
	for i, s := range Statuses {
		got, ok := StatusForTab(i)
		require.True(t, ok)
		assert.Equal(t, s, got)
		assert.Equal(t, i, s.Tab())
	}
	_, ok := StatusForTab(3)
	assert.False(t, ok)
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.False(t, Status("Upcoming").Valid())
}

func TestLoginRequestValidation(t *testing.T) {
	err := Validate(LoginRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("email"))
	assert.True(t, verr.Has("password"))
	assert.Contains(t, verr.Error(), "email is required")

	require.ErrorAs(t, Validate(LoginRequest{Email: "nope", Password: "x"}), &verr)
	assert.True(t, verr.Has("email"))

	assert.NoError(t, Validate(LoginRequest{Email: "a@b.com", Password: "x"}))
}

func TestBookingRequestRequiresDate(t *testing.T) {
	err := Validate(BookingRequest{DoctorID: "1", PatientID: "1", Time: "09:00 AM"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("date"))

	assert.NoError(t, Validate(BookingRequest{DoctorID: "1", PatientID: "1", Date: MustParseDate("2025-04-22"), Time: "09:00 AM"}))
}

func TestUpdateAppointmentRequestStatusRule(t *testing.T) {
	var verr *ValidationError
	require.ErrorAs(t, Validate(UpdateAppointmentRequest{AppointmentID: "a1", Status: "cancelled"}), &verr)
	assert.True(t, verr.Has("status"))
	assert.NoError(t, Validate(UpdateAppointmentRequest{AppointmentID: "a1", Status: "In Progress"}))
}

func TestAddPrescriptionRequestCompaction(t *testing.T) {
	req := AddPrescriptionRequest{
		DoctorID:  "4",
		PatientID: "1",
		Date:      MustParseDate("2025-04-22"),
		Medications: []PrescriptionMedication{
			{Name: " Amoxicillin ", Dosage: "500mg", Instructions: "twice daily"},
			{},
			{Name: "  ", Dosage: " "},
		},
	}
	compact := req.CompactMedications()
	require.Len(t, compact.Medications, 1)
	assert.Equal(t, "Amoxicillin", compact.Medications[0].Name)
	assert.NoError(t, Validate(compact))

	empty := req
	empty.Medications = []PrescriptionMedication{{}}
	var verr *ValidationError
	require.ErrorAs(t, Validate(empty.CompactMedications()), &verr)
	assert.True(t, verr.Has("medications"))

	unnamed := req
	unnamed.Medications = []PrescriptionMedication{{Dosage: "5mg"}}
	require.ErrorAs(t, Validate(unnamed.CompactMedications()), &verr)
	assert.True(t, verr.Has("medications[0].name"))
}

func TestBusinessErrorMessage(t *testing.T) {
	err := error(&BusinessError{Endpoint: "/book-appointment", Message: "slot taken"})
	assert.Equal(t, "slot taken", err.Error())

	var be *BusinessError
	assert.True(t, errors.As(err, &be))
	assert.Contains(t, (&BusinessError{Endpoint: "/login"}).Error(), "/login")
}

func TestParseUserType(t *testing.T) {
	assert.Equal(t, UserTypeDoctor, ParseUserType("Doctor"))
	assert.Equal(t, UserTypePatient, ParseUserType("patient"))
	assert.Equal(t, UserTypePatient, ParseUserType(""))
}

func TestMedicationActiveOn(t *testing.T) {
	m := Medication{StartDate: MustParseDate("2025-04-01"), EndDate: MustParseDate("2025-04-10")}
	assert.True(t, m.ActiveOn(MustParseDate("2025-04-01")))
	assert.True(t, m.ActiveOn(MustParseDate("2025-04-10")))
	assert.False(t, m.ActiveOn(MustParseDate("2025-04-11")))
}
