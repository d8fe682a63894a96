package rabitq

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrUnsupportedMetric is returned when the configured metric is unknown.
	ErrUnsupportedMetric = errors.New("unsupported metric")

	// ErrUnsupportedStrategy is returned when the configured strategy is unknown.
	ErrUnsupportedStrategy = errors.New("unsupported strategy")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrInvalidBits indicates a bit width outside 1..8.
type ErrInvalidBits struct {
	// Field names the setting: "bits" or "query bits".
	Field string
	Bits  int
}

func (e *ErrInvalidBits) Error() string {
	return fmt.Sprintf("invalid %s: %d (must be 1..8)", e.Field, e.Bits)
}

// ErrInvalidCodeSize indicates a code buffer whose length does not match the
// configured bit width and dimension.
type ErrInvalidCodeSize struct {
	Expected int
	Actual   int
}

func (e *ErrInvalidCodeSize) Error() string {
	return fmt.Sprintf("invalid code size: expected %d bytes, got %d", e.Expected, e.Actual)
}

// clusterError annotates err with the cluster it occurred in.
func clusterError(id uint32, err error) error {
	return fmt.Errorf("cluster %d: %w", id, err)
}
