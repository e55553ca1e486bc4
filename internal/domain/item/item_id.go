package item

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemID is a value object representing an item's unique identifier
type ItemID struct {
	value string
}

// NewItemID creates a new ItemID with a generated UUID
func NewItemID() ItemID {
	return ItemID{value: uuid.New().String()}
}

// NewItemIDFromString creates an ItemID from an existing UUID string
func NewItemIDFromString(id string) (ItemID, error) {
	if id == "" {
		return ItemID{}, fmt.Errorf("item_id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return ItemID{}, fmt.Errorf("invalid item_id format: %w", err)
	}
	return ItemID{value: id}, nil
}

// String returns the UUID string
func (i ItemID) String() string {
	return i.value
}

// IsZero checks if the ItemID is uninitialized
func (i ItemID) IsZero() bool {
	return i.value == ""
}
