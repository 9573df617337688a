package dto

import "time"

// CoordinatorRequest is the register/update payload.
type CoordinatorRequest struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	PhoneNumber       string `json:"phoneNumber"`
	Email             string `json:"email"`
	Department        string `json:"department"`
	Degree            string `json:"degree"`
	ShortIntroduction string `json:"shortIntroduction"`
	DegreeProgramme   string `json:"degreeProgramme"`
	Password          string `json:"password,omitempty"`
}

// CoordinatorResponse is the coordinator representation.
type CoordinatorResponse struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	FullName          string     `json:"fullName"`
	PhoneNumber       string     `json:"phoneNumber"`
	Email             string     `json:"email"`
	Department        string     `json:"department"`
	Degree            string     `json:"degree"`
	ShortIntroduction string     `json:"shortIntroduction"`
	DegreeProgramme   string     `json:"degreeProgramme"`
	Active            bool       `json:"active"`
	HasLogin          bool       `json:"hasLogin"`
	EventCount        int64      `json:"eventCount"`
	CreatedAt         *time.Time `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt"`
}

// ProductResponse is the marketplace listing representation.
type ProductResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"imageUrl"`
	SellerID    string     `json:"sellerId"`
	SellerName  string     `json:"sellerName"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	SoldAt      *time.Time `json:"soldAt"`
}

// TransactionResponse is a payment record.
type TransactionResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	UserID        string     `json:"userId"`
	UserName      string     `json:"userName"`
	EventID       string     `json:"eventId,omitempty"`
	EventName     string     `json:"eventName,omitempty"`
	ProductID     string     `json:"productId,omitempty"`
	ProductName   string     `json:"productName,omitempty"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	CreatedAt     *time.Time `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt"`
}

// PaymentStatsResponse aggregates revenue.
type PaymentStatsResponse struct {
	TicketRevenue      float64               `json:"ticketRevenue"`
	MarketplaceRevenue float64               `json:"marketplaceRevenue"`
	TotalRevenue       float64               `json:"totalRevenue"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

// TopCoordinatorResponse ranks a coordinator.
type TopCoordinatorResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EventCount int64  `json:"eventCount"`
}

// DashboardStatsResponse is the admin landing summary.
type DashboardStatsResponse struct {
	TotalEvents     int64                    `json:"totalEvents"`
	TotalUsers      int64                    `json:"totalUsers"`
	TotalProducts   int64                    `json:"totalProducts"`
	ProductsSold    int64                    `json:"productsSold"`
	PendingEvents   int64                    `json:"pendingEvents"`
	PendingProducts int64                    `json:"pendingProducts"`
	RecentEvents    []EventResponse          `json:"recentEvents"`
	TopCoordinators []TopCoordinatorResponse `json:"topCoordinators"`
}

// DocumentResponse is a raw stored document.
type DocumentResponse struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
	UpdateTime string         `json:"updateTime,omitempty"`
}
