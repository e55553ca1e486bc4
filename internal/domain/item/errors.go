package item

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidItemName is returned for blank or overlong item names
	ErrInvalidItemName = errors.New("invalid item name")
	// ErrItemExists is returned when adding a name already in the catalog
	ErrItemExists = errors.New("item already exists")
)

// ItemExistsError carries the conflicting name
type ItemExistsError struct {
	Name string
}

func (e *ItemExistsError) Error() string {
	return fmt.Sprintf("item already exists: %s", e.Name)
}

func (e *ItemExistsError) Is(target error) bool { return target == ErrItemExists }
