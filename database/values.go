package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrStrategyNotSupported is returned for generation strategies the
// database cannot express and the driver cannot emulate client-side.
var ErrStrategyNotSupported = errors.New("generation strategy is not supported")

// GeneratedValue produces a client-side value for a generated column.
// The database has no native auto-increment, so uuid is the only strategy
// the driver can emulate.
func GeneratedValue(strategy string) (string, error) {
	switch strategy {
	case "uuid":
		return uuid.NewString(), nil
	default:
		return "", fmt.Errorf("%q: %w", strategy, ErrStrategyNotSupported)
	}
}
