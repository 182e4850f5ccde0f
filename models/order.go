package models

import "time"

// Order status values. Cancellation is a status change, orders are never
// deleted.
const (
	StatusProcessing = "Processing"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

const (
	PaymentPending  = "Pending"
	PaymentPaid     = "Paid"
	PaymentFailed   = "Failed"
	PaymentRefunded = "Refunded"
)

const (
	PaymentMethodRazorpay = "Razorpay"
	PaymentMethodCOD      = "COD"
)

// DateLayout is the calendar-date format used for order and delivery dates.
// Dates are stored as strings, not timestamps; same-day cancellation and the
// lazy delivery transition both compare at day granularity.
const DateLayout = "Mon Jan 02 2006"

// OrderItem is a line item snapshotted from the cart at purchase time.
// Title, price and image are copies; catalog changes never affect them.
type OrderItem struct {
	ID       int     `json:"id"`
	OrderID  int     `json:"order_id"`
	BookID   int     `json:"book_id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id"`
	Items           []OrderItem `json:"items"`
	Address         string      `json:"address"`
	Phone           string      `json:"phone"`
	Subtotal        string      `json:"subtotal"`
	GrandTotal      string      `json:"grand_total"`
	OrderDate       string      `json:"order_date"`
	DeliveryDate    string      `json:"delivery_date"`
	DeliveryPartner string      `json:"delivery_partner"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"payment_status"`
	PaymentMethod   string      `json:"payment_method"`
	GatewayOrderID  string      `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string     `json:"gateway_payment_id,omitempty"`
	GatewaySignature string     `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
}
