package item

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength is the longest accepted item name, in characters
const MaxNameLength = 64

// DefaultCatalog is the catalog a fresh store is seeded with
var DefaultCatalog = []string{"Item1", "Item2", "Item3"}

// Item is a named catalog entry. Position orders the catalog; it is assigned by the repository.
type Item struct {
	id        ItemID
	name      string
	position  int
	createdAt time.Time
}

// NewItem creates an item with a fresh ID. The name is trimmed and must be 1..MaxNameLength characters.
func NewItem(name string) (*Item, error) {
	return NewItemAt(name, time.Now().UTC())
}

// NewItemAt is NewItem with an explicit creation time
func NewItemAt(name string, createdAt time.Time) (*Item, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return &Item{
		id:        NewItemID(),
		name:      name,
		createdAt: createdAt,
	}, nil
}

// ReconstructItem rebuilds an item from persistence without validation
func ReconstructItem(id ItemID, name string, position int, createdAt time.Time) *Item {
	return &Item{id: id, name: name, position: position, createdAt: createdAt}
}

// NormalizeName trims name and checks its length
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidItemName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidItemName, MaxNameLength)
	}
	return name, nil
}

// PlaceAt sets the catalog position
func (i *Item) PlaceAt(position int) {
	i.position = position
}

// Getters

func (i *Item) ID() ItemID {
	return i.id
}

func (i *Item) Name() string {
	return i.name
}

func (i *Item) Position() int {
	return i.position
}

func (i *Item) CreatedAt() time.Time {
	return i.createdAt
}
