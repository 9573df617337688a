package repository

import (
	"context"
	"strings"

	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
)

// CredentialsCollection holds password logins keyed by lower-cased email.
// It is never reachable through the raw document endpoints.
const CredentialsCollection = "credentials"

// CredentialRepository encapsulates login credential persistence.
type CredentialRepository interface {
	Create(ctx context.Context, c *domain.Credential) error
	Update(ctx context.Context, c *domain.Credential) error
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
	DeleteByEmail(ctx context.Context, email string) error
	FindBySubject(ctx context.Context, subjectID string) (*domain.Credential, error)
}

type credentialRecord struct {
	SchemaVersion int    `json:"schemaVersion,omitempty"`
	SubjectID     string `json:"subjectId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	PasswordHash  string `json:"passwordHash"`
	Role          string `json:"role"`
	CreatedAt     *stamp `json:"createdAt,omitempty"`
	UpdatedAt     *stamp `json:"updatedAt,omitempty"`
}

type credentialRepository struct {
	coll collection[domain.Credential, credentialRecord]
}

// NewCredentialRepository returns a document-store backed implementation.
func NewCredentialRepository(store docstore.Store) CredentialRepository {
	return &credentialRepository{coll: collection[domain.Credential, credentialRecord]{
		store:    store,
		name:     CredentialsCollection,
		toRecord: credentialToRecord,
		toDomain: credentialFromRecord,
	}}
}

// CredentialKey is the document id for an email address.
func CredentialKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *credentialRepository) Create(ctx context.Context, c *domain.Credential) error {
	return r.coll.create(ctx, CredentialKey(c.Email), c)
}

func (r *credentialRepository) Update(ctx context.Context, c *domain.Credential) error {
	return r.coll.merge(ctx, CredentialKey(c.Email), c)
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.coll.get(ctx, CredentialKey(email))
}

func (r *credentialRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.coll.delete(ctx, CredentialKey(email))
}

func (r *credentialRepository) FindBySubject(ctx context.Context, subjectID string) (*domain.Credential, error) {
	found, err := r.coll.find(ctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("subjectId", subjectID)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, docstore.ErrNotFound
	}
	return found[0], nil
}

func credentialToRecord(c *domain.Credential) *credentialRecord {
	return &credentialRecord{
		SchemaVersion: SchemaVersion,
		SubjectID:     c.SubjectID,
		Email:         CredentialKey(c.Email),
		DisplayName:   c.DisplayName,
		PasswordHash:  c.PasswordHash,
		Role:          string(c.Role),
		CreatedAt:     newStamp(c.CreatedAt),
		UpdatedAt:     newStamp(c.UpdatedAt),
	}
}

func credentialFromRecord(id string, r *credentialRecord, _ *docstore.Document) *domain.Credential {
	return &domain.Credential{
		SubjectID:    r.SubjectID,
		Email:        firstNonEmpty(r.Email, id),
		DisplayName:  r.DisplayName,
		PasswordHash: r.PasswordHash,
		Role:         domain.ParseRole(r.Role),
		CreatedAt:    r.CreatedAt.value(),
		UpdatedAt:    r.UpdatedAt.value(),
	}
}
