package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const resourceProduct = "product"

// ProductService moderates marketplace listings.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ProductDependencies bundles collaborators for the product service.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

func NewProductService(deps ProductDependencies) *ProductService {
	return &ProductService{
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		logger:     nopIfNil(deps.Logger),
	}
}

// List returns products, optionally only those in one status.
func (s *ProductService) List(ctx context.Context, status string) ([]*domain.Product, error) {
	var want domain.ProductStatus
	if strings.TrimSpace(status) != "" {
		parsed, ok := domain.ParseProductStatus(status)
		if !ok {
			return nil, apperrors.NewValidationError("unknown product status", map[string]any{"status": status})
		}
		want = parsed
	}
	list, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if want == "" {
		return list, nil
	}
	out := make([]*domain.Product, 0, len(list))
	for _, p := range list {
		if p.Status == want {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns a product or NotFound.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(resourceProduct, id, err)
	}
	return p, nil
}

// SetStatus moves a product through its lifecycle. SOLD stamps soldAt.
func (s *ProductService) SetStatus(ctx context.Context, id, status, actorID string) (*domain.Product, error) {
	next, ok := domain.ParseProductStatus(status)
	if !ok {
		return nil, apperrors.NewValidationError("unknown product status", map[string]any{"status": status})
	}
	return s.transition(ctx, id, next, actorID)
}

// Approve moves a pending product to APPROVED.
func (s *ProductService) Approve(ctx context.Context, id, actorID string) (*domain.Product, error) {
	return s.transition(ctx, id, domain.ProductStatusApproved, actorID)
}

// Disable takes a product off the marketplace.
func (s *ProductService) Disable(ctx context.Context, id, actorID string) (*domain.Product, error) {
	return s.transition(ctx, id, domain.ProductStatusDeleted, actorID)
}

// SoftDelete marks a product DELETED without removing the document.
func (s *ProductService) SoftDelete(ctx context.Context, id, actorID string) error {
	_, err := s.transition(ctx, id, domain.ProductStatusDeleted, actorID)
	return err
}

// CountAll returns the number of stored products.
func (s *ProductService) CountAll(ctx context.Context) (int64, error) {
	n, err := s.products.Count(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

// CountByStatus counts products in a status.
func (s *ProductService) CountByStatus(ctx context.Context, status domain.ProductStatus) (int64, error) {
	n, err := s.products.CountByStatus(ctx, status)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

func (s *ProductService) transition(ctx context.Context, id string, next domain.ProductStatus, actorID string) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == next {
		return p, nil
	}
	if !p.Status.CanTransitionTo(next) {
		if _, known := domain.ParseProductStatus(string(p.Status)); known {
			return nil, apperrors.NewInvalidTransition(resourceProduct, string(p.Status), string(next))
		}
	}

	now := nowUTC()
	var soldAt *time.Time
	if next == domain.ProductStatusSold {
		soldAt = &now
		p.SoldAt = soldAt
	}
	if err := s.products.UpdateStatus(ctx, id, next, now, soldAt); err != nil {
		return nil, storeError(resourceProduct, id, err)
	}
	old := p.Status
	p.Status = next
	p.UpdatedAt = now

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventProductStatusChanged, id, actorID,
		events.StatusChangedPayload{OldStatus: string(old), NewStatus: string(next), ByAdmin: true}))
	return p, nil
}
