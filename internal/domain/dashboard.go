package domain

// DashboardStats is the admin landing summary.
type DashboardStats struct {
	TotalEvents     int64
	TotalUsers      int64
	TotalProducts   int64
	ProductsSold    int64
	PendingEvents   int64
	PendingProducts int64
	RecentEvents    []*Event
	TopCoordinators []TopCoordinator
}
