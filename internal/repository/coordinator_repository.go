package repository

import (
	"context"

	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
)

// CoordinatorsCollection is the document collection holding coordinators.
const CoordinatorsCollection = "coordinators"

// CoordinatorRepository encapsulates coordinator persistence.
type CoordinatorRepository interface {
	Create(ctx context.Context, c *domain.Coordinator) error
	Update(ctx context.Context, c *domain.Coordinator) error
	GetByID(ctx context.Context, id string) (*domain.Coordinator, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Coordinator, error)
}

type coordinatorRecord struct {
	SchemaVersion     int    `json:"schemaVersion,omitempty"`
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	PhoneNumber       string `json:"phoneNumber"`
	Email             string `json:"email"`
	Department        string `json:"department,omitempty"`
	Degree            string `json:"degree,omitempty"`
	ShortIntroduction string `json:"shortIntroduction,omitempty"`
	DegreeProgramme   string `json:"degreeProgramme,omitempty"`
	Active            *bool  `json:"active,omitempty"`
	AuthUID           string `json:"authUid,omitempty"`
	CreatedAt         *stamp `json:"createdAt,omitempty"`
	UpdatedAt         *stamp `json:"updatedAt,omitempty"`
}

type coordinatorRepository struct {
	coll collection[domain.Coordinator, coordinatorRecord]
}

// NewCoordinatorRepository returns a document-store backed implementation.
func NewCoordinatorRepository(store docstore.Store) CoordinatorRepository {
	return &coordinatorRepository{coll: collection[domain.Coordinator, coordinatorRecord]{
		store:    store,
		name:     CoordinatorsCollection,
		toRecord: coordinatorToRecord,
		toDomain: coordinatorFromRecord,
	}}
}

func (r *coordinatorRepository) Create(ctx context.Context, c *domain.Coordinator) error {
	return r.coll.create(ctx, c.ID, c)
}

func (r *coordinatorRepository) Update(ctx context.Context, c *domain.Coordinator) error {
	return r.coll.merge(ctx, c.ID, c)
}

func (r *coordinatorRepository) GetByID(ctx context.Context, id string) (*domain.Coordinator, error) {
	return r.coll.get(ctx, id)
}

func (r *coordinatorRepository) Delete(ctx context.Context, id string) error {
	return r.coll.delete(ctx, id)
}

func (r *coordinatorRepository) List(ctx context.Context) ([]*domain.Coordinator, error) {
	return r.coll.find(ctx, docstore.Query{OrderBy: "createdAt", Descending: true})
}

func coordinatorToRecord(c *domain.Coordinator) *coordinatorRecord {
	return &coordinatorRecord{
		SchemaVersion:     SchemaVersion,
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		PhoneNumber:       c.PhoneNumber,
		Email:             c.Email,
		Department:        c.Department,
		Degree:            c.Degree,
		ShortIntroduction: c.ShortIntroduction,
		DegreeProgramme:   firstNonEmpty(c.DegreeProgramme, c.Department),
		Active:            boolPtr(c.Active),
		AuthUID:           c.AuthUID,
		CreatedAt:         newStamp(c.CreatedAt),
		UpdatedAt:         newStamp(c.UpdatedAt),
	}
}

func coordinatorFromRecord(id string, r *coordinatorRecord, _ *docstore.Document) *domain.Coordinator {
	return &domain.Coordinator{
		ID:                firstNonEmpty(id, r.ID),
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		PhoneNumber:       r.PhoneNumber,
		Email:             r.Email,
		Department:        firstNonEmpty(r.Department, r.DegreeProgramme),
		Degree:            r.Degree,
		ShortIntroduction: r.ShortIntroduction,
		DegreeProgramme:   firstNonEmpty(r.DegreeProgramme, r.Department),
		Active:            boolOr(r.Active, true),
		AuthUID:           r.AuthUID,
		CreatedAt:         r.CreatedAt.value(),
		UpdatedAt:         r.UpdatedAt.value(),
	}
}
