package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the closed set of values the raw feed uses; anything else is
// rejected during reconciliation.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// ParseGender validates a raw gender value
func ParseGender(raw string) (Gender, error) {
	switch Gender(raw) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(raw), nil
	default:
		return "", NewValidationError("customer", "", "gender", "must be Male, Female or Other")
	}
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCanceled  OrderStatus = "canceled"
)

// ParseOrderStatus validates a raw status value. An empty value defaults to
// pending, matching the source schema.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	if raw == "" {
		return StatusPending, nil
	}
	switch OrderStatus(raw) {
	case StatusPending, StatusCompleted, StatusCanceled:
		return OrderStatus(raw), nil
	default:
		return "", NewValidationError("order", "", "status", "must be pending, completed or canceled")
	}
}

// Customer represents a customer record. NaturalID is the external
// identifier carried in from the raw feed; ID is assigned by the store at
// insert time.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	NaturalID string    `json:"natural_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Location  string    `json:"location"`
	Gender    Gender    `json:"gender"`
}

// Validate checks the customer field constraints
func (c Customer) Validate() error {
	if c.NaturalID == "" {
		return NewValidationError("customer", c.NaturalID, "natural_id", "is required")
	}
	if c.Name == "" {
		return NewValidationError("customer", c.NaturalID, "name", "is required")
	}
	if c.Email == "" {
		return NewValidationError("customer", c.NaturalID, "email", "is required")
	}
	if c.Age <= 0 {
		return NewValidationError("customer", c.NaturalID, "age", "must be a positive integer")
	}
	if c.Location == "" {
		return NewValidationError("customer", c.NaturalID, "location", "is required")
	}
	if _, err := ParseGender(string(c.Gender)); err != nil {
		return NewValidationError("customer", c.NaturalID, "gender", "must be Male, Female or Other")
	}
	return nil
}

// Product represents a product record
type Product struct {
	ID        uuid.UUID `json:"id"`
	NaturalID string    `json:"natural_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
}

// Validate checks the product field constraints
func (p Product) Validate() error {
	if p.NaturalID == "" {
		return NewValidationError("product", p.NaturalID, "natural_id", "is required")
	}
	if p.Name == "" {
		return NewValidationError("product", p.NaturalID, "name", "is required")
	}
	if p.Category == "" {
		return NewValidationError("product", p.NaturalID, "category", "is required")
	}
	if p.Price < 0 {
		return NewValidationError("product", p.NaturalID, "price", "must not be negative")
	}
	if p.Stock < 0 {
		return NewValidationError("product", p.NaturalID, "stock", "must not be negative")
	}
	return nil
}

// OrderLine is one entry in an order's product list. PriceAtPurchase is the
// price captured at order time and is independent of the current product
// price.
type OrderLine struct {
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase float64   `json:"price_at_purchase"`
}

// Validate checks the line constraints
func (l OrderLine) Validate() error {
	if l.ProductID == uuid.Nil {
		return NewValidationError("order_line", "", "product_id", "is required")
	}
	if l.Quantity < 1 {
		return NewValidationError("order_line", "", "quantity", "must be at least 1")
	}
	if l.PriceAtPurchase < 0 {
		return NewValidationError("order_line", "", "price_at_purchase", "must not be negative")
	}
	return nil
}

// Order represents an order record. TotalAmount comes from the feed as-is
// and is not reconciled against the line sum; the two can diverge.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	NaturalID   string      `json:"natural_id"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	Lines       []OrderLine `json:"lines"`
	TotalAmount float64     `json:"total_amount"`
	OrderDate   time.Time   `json:"order_date"`
	Status      OrderStatus `json:"status"`
}

// Validate checks the order field constraints. Line content is validated
// per line during reconciliation, not here.
func (o Order) Validate() error {
	if o.NaturalID == "" {
		return NewValidationError("order", o.NaturalID, "natural_id", "is required")
	}
	if o.CustomerID == uuid.Nil {
		return NewValidationError("order", o.NaturalID, "customer_id", "is required")
	}
	if o.TotalAmount < 0 {
		return NewValidationError("order", o.NaturalID, "total_amount", "must not be negative")
	}
	if o.OrderDate.IsZero() {
		return NewValidationError("order", o.NaturalID, "order_date", "is required")
	}
	if _, err := ParseOrderStatus(string(o.Status)); err != nil {
		return err
	}
	return nil
}
