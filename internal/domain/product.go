package domain

import "time"

// ProductStatus enumerates marketplace listing states.
type ProductStatus string

const (
	ProductStatusPending   ProductStatus = "PENDING"
	ProductStatusApproved  ProductStatus = "APPROVED"
	ProductStatusAvailable ProductStatus = "AVAILABLE"
	ProductStatusSold      ProductStatus = "SOLD"
	ProductStatusDeleted   ProductStatus = "DELETED"
)

var productTransitions = transitions[ProductStatus]{
	ProductStatusPending:   {ProductStatusApproved, ProductStatusDeleted},
	ProductStatusApproved:  {ProductStatusAvailable, ProductStatusSold, ProductStatusDeleted},
	ProductStatusAvailable: {ProductStatusSold, ProductStatusDeleted},
	ProductStatusSold:      {},
	ProductStatusDeleted:   {},
}

// ParseProductStatus accepts any casing and reports whether the value is known.
func ParseProductStatus(s string) (ProductStatus, bool) {
	status := ProductStatus(normalizeEnum(s))
	_, ok := productTransitions[status]
	return status, ok
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s ProductStatus) CanTransitionTo(next ProductStatus) bool {
	return productTransitions.allows(s, next)
}

// Product is a marketplace listing.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
	SellerID    string
	SellerName  string
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SoldAt      *time.Time
}
