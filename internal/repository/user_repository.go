package repository

import (
	"context"
	"strings"

	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
)

// UsersCollection is the document collection holding end users.
const UsersCollection = "users"

// UserRepository defines persistence access for end-users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, uid string) (*domain.User, error)
	Delete(ctx context.Context, uid string) error
	List(ctx context.Context) ([]*domain.User, error)
	ListByType(ctx context.Context, userType domain.UserType) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRecord struct {
	SchemaVersion      int    `json:"schemaVersion,omitempty"`
	UID                string `json:"uid"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	PhoneNumber        string `json:"phoneNumber"`
	UserType           string `json:"userType"`
	Role               string `json:"role,omitempty"`
	IsEmailVerified    bool   `json:"isEmailVerified"`
	IsActive           *bool  `json:"isActive,omitempty"`
	DegreeProgram      string `json:"degreeProgram"`
	StudentID          string `json:"studentId,omitempty"`
	StudentIDImageURL  string `json:"studentIdImageUrl"`
	VerificationStatus string `json:"verificationStatus,omitempty"`
	IsStudentVerified  *bool  `json:"isStudentVerified,omitempty"`
	CreatedAt          *stamp `json:"createdAt,omitempty"`
	UpdatedAt          *stamp `json:"updatedAt,omitempty"`

	// Read-only legacy fields from the older admin-side user model.
	LegacyID         string `json:"id,omitempty"`
	LegacyFirstName  string `json:"firstName,omitempty"`
	LegacyLastName   string `json:"lastName,omitempty"`
	LegacyActive     *bool  `json:"active,omitempty"`
	LegacyIDImageURL string `json:"idImageUrl,omitempty"`
}

type userRepository struct {
	coll collection[domain.User, userRecord]
}

// NewUserRepository returns a document-store backed implementation.
func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{coll: collection[domain.User, userRecord]{
		store:    store,
		name:     UsersCollection,
		toRecord: userToRecord,
		toDomain: userFromRecord,
	}}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.coll.create(ctx, user.UID, user)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.coll.merge(ctx, user.UID, user)
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	return r.coll.get(ctx, uid)
}

func (r *userRepository) Delete(ctx context.Context, uid string) error {
	return r.coll.delete(ctx, uid)
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.coll.find(ctx, docstore.Query{OrderBy: "createdAt", Descending: true})
}

func (r *userRepository) ListByType(ctx context.Context, userType domain.UserType) ([]*domain.User, error) {
	return r.coll.find(ctx, docstore.Query{
		Filters:    []docstore.Filter{docstore.In("userType", userTypeSpellings(userType)...)},
		OrderBy:    "createdAt",
		Descending: true,
	})
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.count(ctx)
}

func userTypeSpellings(t domain.UserType) []string {
	switch t {
	case domain.UserTypeStudent:
		return []string{"STUDENT", "UNIVERSITY_STUDENT"}
	case domain.UserTypeExternal:
		return []string{"EXTERNAL", "EXTERNAL_USER"}
	default:
		return []string{string(t)}
	}
}

func userToRecord(u *domain.User) *userRecord {
	rec := &userRecord{
		SchemaVersion:     SchemaVersion,
		UID:               u.UID,
		Email:             u.Email,
		Name:              u.Name,
		PhoneNumber:       u.PhoneNumber,
		UserType:          string(u.UserType),
		Role:              string(u.Role),
		IsEmailVerified:   u.IsEmailVerified,
		IsActive:          boolPtr(u.IsActive),
		DegreeProgram:     u.DegreeProgram,
		StudentID:         u.StudentID,
		StudentIDImageURL: u.StudentIDImageURL,
		CreatedAt:         newStamp(u.CreatedAt),
		UpdatedAt:         newStamp(u.UpdatedAt),
	}
	if u.IsStudent() {
		status := u.VerificationStatus
		if status == "" {
			status = domain.VerificationPending
		}
		rec.VerificationStatus = string(status)
		rec.IsStudentVerified = boolPtr(status == domain.VerificationVerified)
	}
	return rec
}

func userFromRecord(id string, r *userRecord, _ *docstore.Document) *domain.User {
	u := &domain.User{
		UID:               firstNonEmpty(id, r.UID, r.LegacyID),
		Email:             r.Email,
		Name:              r.Name,
		PhoneNumber:       r.PhoneNumber,
		Role:              domain.ParseRole(r.Role),
		IsEmailVerified:   r.IsEmailVerified,
		DegreeProgram:     r.DegreeProgram,
		StudentID:         r.StudentID,
		StudentIDImageURL: firstNonEmpty(r.StudentIDImageURL, r.LegacyIDImageURL),
		CreatedAt:         r.CreatedAt.value(),
		UpdatedAt:         r.UpdatedAt.value(),
	}
	if u.Name == "" {
		u.Name = strings.TrimSpace(r.LegacyFirstName + " " + r.LegacyLastName)
	}
	if ut, ok := domain.ParseUserType(r.UserType); ok {
		u.UserType = ut
	} else {
		u.UserType = domain.UserType(r.UserType)
	}

	switch {
	case r.IsActive != nil:
		u.IsActive = *r.IsActive
	case r.LegacyActive != nil:
		u.IsActive = *r.LegacyActive
	default:
		u.IsActive = true
	}

	if status, ok := domain.ParseVerificationStatus(r.VerificationStatus); ok {
		u.VerificationStatus = status
	} else if r.IsStudentVerified != nil {
		u.VerificationStatus = domain.VerificationPending
		if *r.IsStudentVerified {
			u.VerificationStatus = domain.VerificationVerified
		}
	} else if u.IsStudent() {
		u.VerificationStatus = domain.VerificationPending
	}
	return u
}
