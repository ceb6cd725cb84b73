package graph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/linkweave/model"
)

var (
	// ErrDuplicateID is returned when two input documents share an ID.
	ErrDuplicateID = errors.New("graph: duplicate document id")

	// ErrCorruptSnapshot is returned when a snapshot fails validation.
	ErrCorruptSnapshot = errors.New("graph: corrupt snapshot")
)

// DuplicateIDError identifies the offending ID of a duplicate-id integrity
// failure. It unwraps to ErrDuplicateID.
type DuplicateIDError struct {
	ID model.ID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("graph: duplicate document id %d", e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }
