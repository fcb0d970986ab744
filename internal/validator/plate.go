package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidPlate = errors.New("invalid plate")

var platePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// NormalizePlate strips whitespace from a raw plate, upper-cases it and
// validates the result. A valid plate is exactly 6 alphanumeric characters
// (A-Z, 0-9); no accents, no special characters. Idempotent for
// already-normalized plates.
func NormalizePlate(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: plate must not be empty", ErrInvalidPlate)
	}

	plate := strings.ToUpper(strings.Join(strings.Fields(raw), ""))

	if len(plate) != 6 {
		return "", fmt.Errorf("%w: plate must have exactly 6 characters, got '%s' (%d characters)",
			ErrInvalidPlate, plate, len(plate))
	}
	if !platePattern.MatchString(plate) {
		return "", fmt.Errorf("%w: plate may only contain alphanumeric characters (A-Z, 0-9)", ErrInvalidPlate)
	}
	return plate, nil
}
