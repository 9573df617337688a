package domain

import "time"

// UserType distinguishes institutional students from external users.
type UserType string

const (
	UserTypeStudent  UserType = "STUDENT"
	UserTypeExternal UserType = "EXTERNAL"
)

// ParseUserType accepts current and legacy spellings.
func ParseUserType(s string) (UserType, bool) {
	switch normalizeEnum(s) {
	case "STUDENT", "UNIVERSITY_STUDENT":
		return UserTypeStudent, true
	case "EXTERNAL", "EXTERNAL_USER":
		return UserTypeExternal, true
	default:
		return "", false
	}
}

// VerificationStatus tracks student ID review.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// ParseVerificationStatus accepts any casing.
func ParseVerificationStatus(s string) (VerificationStatus, bool) {
	switch v := VerificationStatus(normalizeEnum(s)); v {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return v, true
	default:
		return "", false
	}
}

// User is a registered end user.
type User struct {
	UID                string
	Email              string
	Name               string
	PhoneNumber        string
	UserType           UserType
	Role               Role
	IsEmailVerified    bool
	IsActive           bool
	DegreeProgram      string
	StudentID          string
	StudentIDImageURL  string
	VerificationStatus VerificationStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsStudent reports whether the user registered as a student.
func (u *User) IsStudent() bool {
	return u != nil && u.UserType == UserTypeStudent
}

// UserStats summarises the user base for the admin console.
type UserStats struct {
	TotalStudents            int64
	TotalExternalUsers       int64
	TotalPendingVerification int64
}
