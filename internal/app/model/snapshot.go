package model

import "time"

// CartSnapshot is the persisted form of a shopper's cart: one row per
// session holding the serialized line sequence. Written after every
// mutation, read once when the session first touches its cart.
type CartSnapshot struct {
	SessionID string    `gorm:"primarykey;size:64" json:"session_id"`
	Data      string    `gorm:"type:text;not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
