package service

import (
	"context"
	"sort"

	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const (
	dashboardRecentEvents    = 5
	dashboardTopCoordinators = 5
)

// DashboardService assembles the admin landing summary.
type DashboardService struct {
	events       *EventService
	products     *ProductService
	coordinators *CoordinatorService
	users        repository.UserRepository
}

// DashboardDependencies bundles collaborators for the dashboard.
type DashboardDependencies struct {
	EventService       *EventService
	ProductService     *ProductService
	CoordinatorService *CoordinatorService
	UserRepo           repository.UserRepository
}

func NewDashboardService(deps DashboardDependencies) *DashboardService {
	return &DashboardService{
		events:       deps.EventService,
		products:     deps.ProductService,
		coordinators: deps.CoordinatorService,
		users:        deps.UserRepo,
	}
}

// Stats computes the dashboard counters, recent events and top coordinators.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		stats domain.DashboardStats
		err   error
	)
	if stats.TotalEvents, err = s.events.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if stats.TotalProducts, err = s.products.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.ProductsSold, err = s.products.CountByStatus(ctx, domain.ProductStatusSold); err != nil {
		return nil, err
	}
	if stats.PendingEvents, err = s.events.CountByStatus(ctx, domain.EventStatusPending); err != nil {
		return nil, err
	}
	if stats.PendingProducts, err = s.products.CountByStatus(ctx, domain.ProductStatusPending); err != nil {
		return nil, err
	}
	if stats.RecentEvents, err = s.events.RecentEvents(ctx, dashboardRecentEvents); err != nil {
		return nil, err
	}
	if stats.TopCoordinators, err = s.TopCoordinators(ctx, dashboardTopCoordinators); err != nil {
		return nil, err
	}
	return &stats, nil
}

// TopCoordinators ranks coordinators by event count, ties broken by name.
func (s *DashboardService) TopCoordinators(ctx context.Context, limit int) ([]domain.TopCoordinator, error) {
	list, err := s.coordinators.List(ctx)
	if err != nil {
		return nil, err
	}
	top := make([]domain.TopCoordinator, 0, len(list))
	for _, c := range list {
		top = append(top, domain.TopCoordinator{ID: c.ID, Name: c.FullName(), EventCount: c.EventCount})
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].EventCount != top[j].EventCount {
			return top[i].EventCount > top[j].EventCount
		}
		return top[i].Name < top[j].Name
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}
