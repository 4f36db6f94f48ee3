package models

// Order statuses. The first five form the fulfillment timeline in this
// exact order; cancelled sits outside the progression.
const (
	StatusConfirmed      = "confirmed"
	StatusProcessing     = "processing"
	StatusShipped        = "shipped"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// StatusProgression is the ordered fulfillment timeline.
var StatusProgression = []string{
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

// Payment methods. Anything other than COD is treated as online.
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// Owner reference kinds
const (
	OwnerByID    = "by_id"
	OwnerByEmail = "by_email"
)

// Customer identifies who placed an order. Email is the primary
// ownership key (compared case-insensitive, trimmed).
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ShippingAddress is the delivery destination
type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// OrderItem is one line in an order; Total is price*quantity,
// computed at placement time.
type OrderItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// StatusEntry is one step of an order's status history
type StatusEntry struct {
	Status  string `json:"status"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// OwnerRef is an explicit ownership reference resolved at placement
// time. Legacy records carry only the loose UserID field, which may
// hold either a user id or an email.
type OwnerRef struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Order represents one checkout transaction. Orders are stored as
// documents; Status, TrackingNumber and StatusHistory may be absent
// on raw records and are defaulted at read time by the reconciler.
type Order struct {
	OrderID         string           `json:"orderId"`
	Customer        *Customer        `json:"customer,omitempty"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	Items           []OrderItem      `json:"items"`
	PaymentMethod   string           `json:"paymentMethod"`
	Subtotal        float64          `json:"subtotal"`
	Shipping        float64          `json:"shipping"`
	Total           float64          `json:"total"`
	OrderDate       string           `json:"orderDate"`
	Status          string           `json:"status,omitempty"`
	TrackingNumber  string           `json:"trackingNumber,omitempty"`
	StatusHistory   []StatusEntry    `json:"statusHistory,omitempty"`

	// UserID is the legacy owner field: sometimes a user id,
	// sometimes an email. Kept readable for old records.
	UserID string    `json:"userId,omitempty"`
	Owner  *OwnerRef `json:"owner,omitempty"`
}

// CustomerSummary is the admin view of one distinct customer,
// aggregated over their orders.
type CustomerSummary struct {
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	TotalOrders   int     `json:"totalOrders"`
	TotalSpent    float64 `json:"totalSpent"`
	LastOrderDate string  `json:"lastOrderDate"`
}

// ValidStatus reports whether s is a known order status
func ValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	for _, p := range StatusProgression {
		if s == p {
			return true
		}
	}
	return false
}
