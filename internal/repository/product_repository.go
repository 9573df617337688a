package repository

import (
	"context"
	"time"

	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
)

// ProductsCollection is the document collection holding marketplace listings.
const ProductsCollection = "products"

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProductStatus, at time.Time, soldAt *time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Product, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.ProductStatus) (int64, error)
}

type productRecord struct {
	SchemaVersion int     `json:"schemaVersion,omitempty"`
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	ImageURL      string  `json:"imageUrl"`
	SellerID      string  `json:"sellerId"`
	SellerName    string  `json:"sellerName"`
	Status        string  `json:"status"`
	CreatedAt     *stamp  `json:"createdAt,omitempty"`
	UpdatedAt     *stamp  `json:"updatedAt,omitempty"`
	SoldAt        *stamp  `json:"soldAt,omitempty"`
}

type productRepository struct {
	coll collection[domain.Product, productRecord]
}

// NewProductRepository returns a document-store backed implementation.
func NewProductRepository(store docstore.Store) ProductRepository {
	return &productRepository{coll: collection[domain.Product, productRecord]{
		store:    store,
		name:     ProductsCollection,
		toRecord: productToRecord,
		toDomain: productFromRecord,
	}}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.coll.create(ctx, p.ID, p)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.coll.get(ctx, id)
}

func (r *productRepository) UpdateStatus(ctx context.Context, id string, status domain.ProductStatus, at time.Time, soldAt *time.Time) error {
	fields := map[string]any{
		"status":    string(status),
		"updatedAt": newStamp(at),
	}
	if soldAt != nil {
		fields["soldAt"] = newStamp(*soldAt)
	}
	return r.coll.patch(ctx, id, fields)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.coll.delete(ctx, id)
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.coll.find(ctx, docstore.Query{OrderBy: "createdAt", Descending: true})
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.count(ctx)
}

func (r *productRepository) CountByStatus(ctx context.Context, status domain.ProductStatus) (int64, error) {
	return r.coll.count(ctx, statusValues(string(status)))
}

func productToRecord(p *domain.Product) *productRecord {
	return &productRecord{
		SchemaVersion: SchemaVersion,
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		SellerID:      p.SellerID,
		SellerName:    p.SellerName,
		Status:        string(p.Status),
		CreatedAt:     newStamp(p.CreatedAt),
		UpdatedAt:     newStamp(p.UpdatedAt),
		SoldAt:        newStampPtr(p.SoldAt),
	}
}

func productFromRecord(id string, r *productRecord, _ *docstore.Document) *domain.Product {
	status := domain.ProductStatusPending
	if r.Status != "" {
		if parsed, ok := domain.ParseProductStatus(r.Status); ok {
			status = parsed
		} else {
			status = domain.ProductStatus(r.Status)
		}
	}
	return &domain.Product{
		ID:          firstNonEmpty(id, r.ID),
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		SellerID:    r.SellerID,
		SellerName:  r.SellerName,
		Status:      status,
		CreatedAt:   r.CreatedAt.value(),
		UpdatedAt:   r.UpdatedAt.value(),
		SoldAt:      r.SoldAt.ptr(),
	}
}
