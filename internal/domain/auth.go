package domain

import (
	"fmt"
	"strings"
)

// UserType selects the doctor or patient experience.
type UserType string

const (
	UserTypeDoctor  UserType = "doctor"
	UserTypePatient UserType = "patient"
)

// ParseUserType normalises a backend-supplied user type. Anything other than
// "doctor" is treated as a patient, matching the login routing.
func ParseUserType(raw string) UserType {
	if strings.EqualFold(strings.TrimSpace(raw), string(UserTypeDoctor)) {
		return UserTypeDoctor
	}
	return UserTypePatient
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /register. Age travels as a string.
type RegisterRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Age         string `json:"age"`
	Gender      string `json:"gender"`
}

// AuthResponse is returned by /login and /register.
type AuthResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token,omitempty"`
	UserID   string `json:"userId,omitempty"`
	UserType string `json:"userType,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (r *AuthResponse) UnmarshalJSON(data []byte) error {
	type plain AuthResponse
	var v plain
	if err := decodeRecord(data, &v, "AuthResponse", "success"); err != nil {
		return err
	}
	*r = AuthResponse(v)
	return nil
}

// Envelope is the shape shared by every write response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BusinessError is a server-reported {success:false} outcome. Message is the
// server's text, surfaced verbatim.
type BusinessError struct {
	Endpoint string
	Message  string
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request was not successful", e.Endpoint)
	}
	return e.Message
}
