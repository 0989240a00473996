package dreamlethe

import "errors"

var (
	// ErrEmptyDataset is returned when the relationship table registers no
	// entities at all.
	ErrEmptyDataset = errors.New("dreamlethe: dataset has no entities")

	// ErrClosed is returned when operating on a closed engine.
	ErrClosed = errors.New("dreamlethe: engine is closed")
)
