package dto

import "time"

// StudentRegisterRequest payload for student sign-up.
type StudentRegisterRequest struct {
	UID               string `json:"uid"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	PhoneNumber       string `json:"phoneNumber"`
	DegreeProgram     string `json:"degreeProgram"`
	StudentID         string `json:"studentId"`
	StudentIDImageURL string `json:"studentIdImageUrl"`
}

// ExternalRegisterRequest payload for external sign-up.
type ExternalRegisterRequest struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// ProfileUpdateRequest carries the self-editable fields. Anything else in the
// body is ignored.
type ProfileUpdateRequest struct {
	Name              *string `json:"name"`
	PhoneNumber       *string `json:"phoneNumber"`
	DegreeProgram     *string `json:"degreeProgram"`
	StudentIDImageURL *string `json:"studentIdImageUrl"`
}

// VerifyStudentRequest toggles student verification.
type VerifyStudentRequest struct {
	Verified *bool `json:"verified"`
}

// VerificationStatusRequest sets an explicit verification status.
type VerificationStatusRequest struct {
	Status string `json:"status"`
}

// ActiveRequest enables or disables an account.
type ActiveRequest struct {
	Active *bool `json:"active"`
}

// UserResponse is the profile representation.
type UserResponse struct {
	UID                string     `json:"uid"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	PhoneNumber        string     `json:"phoneNumber"`
	UserType           string     `json:"userType"`
	Role               string     `json:"role"`
	IsEmailVerified    bool       `json:"isEmailVerified"`
	IsActive           bool       `json:"isActive"`
	DegreeProgram      string     `json:"degreeProgram,omitempty"`
	StudentID          string     `json:"studentId,omitempty"`
	StudentIDImageURL  string     `json:"studentIdImageUrl,omitempty"`
	VerificationStatus string     `json:"verificationStatus,omitempty"`
	IsStudentVerified  *bool      `json:"isStudentVerified,omitempty"`
	CreatedAt          *time.Time `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt"`
}

// UserStatsResponse summarises the user base.
type UserStatsResponse struct {
	TotalStudents            int64 `json:"totalStudents"`
	TotalExternalUsers       int64 `json:"totalExternalUsers"`
	TotalPendingVerification int64 `json:"totalPendingVerification"`
}
