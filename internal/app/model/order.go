package model

import "time"

// OrderConfirmation is what the upstream order API returns on success.
// TrackingNumber is opaque; the shopper uses it for later status lookups.
type OrderConfirmation struct {
	OrderID        string `json:"order_id,omitempty"`
	OrderNumber    string `json:"order_number,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// StatusUpdate is one entry in an order's status timeline.
type StatusUpdate struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// TrackingInfo is the normalized tracking lookup result.
type TrackingInfo struct {
	TrackingNumber string         `json:"tracking_number"`
	Status         string         `json:"order_status"`
	StatusDisplay  string         `json:"status_display"`
	CustomerName   string         `json:"customer_name"`
	ProductDetails string         `json:"product_details"`
	OrderDate      time.Time      `json:"order_date"`
	SupportEmail   string         `json:"customer_support_email"`
	Updates        []StatusUpdate `json:"status_updates,omitempty"`
}
