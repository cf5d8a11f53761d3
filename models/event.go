package models

import "encoding/json"

// Queue names this service consumes from. All are declared durable.
const (
	QueueProductEvents = "product_events_for_notifications"
	QueueOrderEvents   = "order_events_for_notifications"
	QueueAuthEvents    = "auth_events"
	QueueUserDataSync  = "user_data_sync"
)

// Event type tags carried in the envelope.
const (
	TypeUserCreated = "user_created"

	TypeProductCreated = "product_created"
	TypeProductUpdated = "product_updated"
	TypeProductDeleted = "product_deleted"

	TypeOrderPlaced  = "order_placed"
	TypeOrderUpdated = "order_updated"
	TypeOrderDeleted = "order_deleted"

	TypeUserDataSync = "user_data_sync"
)

// Event is the envelope carried by every queue message. Type selects the
// shape of Data; an unrecognized Type is a no-op, not an error.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// AuthEventData is the payload for user_created events.
type AuthEventData struct {
	UserID string `json:"userId"`
}

// SellerRef identifies the seller who owns a product.
type SellerRef struct {
	ID string `json:"id"`
}

// ProductEventData is the payload for product lifecycle events.
type ProductEventData struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    string    `json:"category,omitempty"`
	Seller      SellerRef `json:"seller"`
	CreatedAt   string    `json:"createdAt,omitempty"`
}

// RemainingQuantity records the stock left for a product after an order
// event. Resolved by ProductID, never by position.
type RemainingQuantity struct {
	ProductID         string `json:"productId"`
	RemainingQuantity int    `json:"remainingQuantity"`
}

// OrderEventData is the payload for order lifecycle events. SellerIDs,
// ProductIDs, Titles and Quantities are parallel arrays: index i across
// all four describes one order line item.
type OrderEventData struct {
	UserID              string              `json:"userId"`
	SellerIDs           []string            `json:"sellerIds"`
	ProductIDs          []string            `json:"productIds"`
	Titles              []string            `json:"titles"`
	Quantities          []int               `json:"quantities"`
	RemainingQuantities []RemainingQuantity `json:"remainingQuantities"`
}

// UserSyncData is a full or partial user projection arriving on the
// user_data_sync queue.
type UserSyncData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
