package model

import "time"

// InventoryItem represents a single tracked leftover. The notification handle
// is the identifier returned by the scheduler for this item's expiry alert;
// an item carries at most one live handle at any time.
type InventoryItem struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	DateAdded          time.Time `json:"dateAdded"`
	DaysUntilExpiry    int       `json:"daysUntilExpiry"`
	Category           string    `json:"category,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	ImageRef           string    `json:"imageRef,omitempty"`
	NotificationHandle string    `json:"notificationHandle,omitempty"`
}

// Snapshot is the complete point-in-time inventory plus its modification
// timestamp in wall-clock milliseconds. Exactly one authoritative snapshot
// exists per storage side; reconciliation selects a winner by timestamp.
type Snapshot struct {
	Items        []InventoryItem `json:"items"`
	LastModified int64           `json:"lastModified"`
}

// ItemUpdate describes a partial update to an inventory item. Nil fields are
// left untouched.
type ItemUpdate struct {
	Name            *string    `json:"name,omitempty"`
	DateAdded       *time.Time `json:"dateAdded,omitempty"`
	DaysUntilExpiry *int       `json:"daysUntilExpiry,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	ImageRef        *string    `json:"imageRef,omitempty"`
}

// ExpiryStatus classifies how close an item is to expiring.
type ExpiryStatus string

const (
	StatusFresh   ExpiryStatus = "fresh"
	StatusWarning ExpiryStatus = "warning"
	StatusExpired ExpiryStatus = "expired"
)

// ItemView is an InventoryItem decorated with derived expiry information for
// display. It is computed on read and never persisted.
type ItemView struct {
	InventoryItem
	DaysRemaining int          `json:"daysRemaining"`
	ExpiryDate    time.Time    `json:"expiryDate"`
	Status        ExpiryStatus `json:"status"`
}

// Categories lists the known leftover categories in display order.
var Categories = []string{
	"Meat",
	"Vegetables",
	"Dairy",
	"Prepared Meal",
	"Soup/Stew",
	"Dessert",
	"Other",
}

// DefaultExpiryDays maps each category to its suggested shelf life in days.
var DefaultExpiryDays = map[string]int{
	"Meat":          3,
	"Vegetables":    5,
	"Dairy":         7,
	"Prepared Meal": 4,
	"Soup/Stew":     4,
	"Dessert":       5,
	"Other":         3,
}
