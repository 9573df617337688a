package domain

import "time"

// TransactionType distinguishes ticket sales from marketplace sales.
type TransactionType string

const (
	TransactionTypeTicket      TransactionType = "TICKET"
	TransactionTypeMarketplace TransactionType = "MARKETPLACE"
)

// TransactionStatus enumerates payment outcomes.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusRefunded  TransactionStatus = "REFUNDED"
)

// Transaction is a payment record. This service only reads them.
type Transaction struct {
	ID            string
	Type          TransactionType
	UserID        string
	UserName      string
	EventID       string
	EventName     string
	ProductID     string
	ProductName   string
	Amount        float64
	PaymentMethod string
	Status        TransactionStatus
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// PaymentStats aggregates completed revenue.
type PaymentStats struct {
	TicketRevenue      float64
	MarketplaceRevenue float64
	TotalRevenue       float64
	RecentTransactions []*Transaction
}
