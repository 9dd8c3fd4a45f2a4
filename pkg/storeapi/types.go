package storeapi

import (
	"encoding/json"
	"time"
)

// OrderItem is one line of the order payload sent to POST /orders/.
type OrderItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderRequest is the full order submission payload. TotalAmount is the
// cart subtotal only; shipping and tax are computed by the backend.
type OrderRequest struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	ShippingAddress string      `json:"shipping_address"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	NotifyViaEmail  bool        `json:"notify_via_email"`
	NotifyViaSMS    bool        `json:"notify_via_sms"`
	IsGuest         bool        `json:"is_guest"`

	// IdempotencyKey is sent as a header, not in the body.
	IdempotencyKey string `json:"-"`
}

// orderResponse covers the shapes the order API is known to answer
// with. Success is a pointer so an absent flag is distinguishable from
// an explicit false.
type orderResponse struct {
	Success        *bool       `json:"success"`
	OrderID        json.Number `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	TrackingNumber string      `json:"tracking_number"`
	Message        string      `json:"message"`
}

// SignupRequest is the payload for POST /auth/signup/.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone_number,omitempty"`
}

type userPayload struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone_number"`
}

type authResponse struct {
	User    *userPayload `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

type trackingResponse struct {
	TrackingNumber string           `json:"tracking_number"`
	OrderStatus    string           `json:"order_status"`
	StatusDisplay  string           `json:"status_display"`
	CustomerName   string           `json:"customer_name"`
	ProductDetails string           `json:"product_details"`
	OrderDate      time.Time        `json:"order_date"`
	SupportEmail   string           `json:"customer_support_email"`
	StatusUpdates  []trackingUpdate `json:"status_updates"`
}

type trackingUpdate struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
}

// ErrorResponse is the generic upstream error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
