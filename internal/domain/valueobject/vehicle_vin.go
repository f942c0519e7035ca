package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// VehicleVIN – immutable value object
// ---------------------------------------------------------------------------

// VINs never contain I, O or Q (ISO 3779).
var vinRe = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// VehicleVIN is a normalized 17-character vehicle identification number.
type VehicleVIN struct {
	value string
}

// NewVehicleVIN normalizes and validates a raw VIN string. Normalization is
// idempotent: feeding a VIN's value back through the constructor yields the
// same value.
func NewVehicleVIN(raw string) (VehicleVIN, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if len(normalized) != 17 {
		return VehicleVIN{}, fmt.Errorf("%w: VIN %q must be exactly 17 characters, got %d",
			ErrInvalidInput, normalized, len(normalized))
	}
	if !vinRe.MatchString(normalized) {
		return VehicleVIN{}, fmt.Errorf("%w: VIN %q contains invalid characters (I, O and Q are not allowed)",
			ErrInvalidInput, normalized)
	}
	return VehicleVIN{value: normalized}, nil
}

// MustVehicleVIN creates a VehicleVIN and panics on error. Test fixtures only.
func MustVehicleVIN(raw string) VehicleVIN {
	v, err := NewVehicleVIN(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Value returns the normalized VIN.
func (v VehicleVIN) Value() string { return v.value }

// IsZero returns true if the VIN has not been initialised.
func (v VehicleVIN) IsZero() bool { return v.value == "" }

// Equal reports equality of normalized values.
func (v VehicleVIN) Equal(other VehicleVIN) bool { return v.value == other.value }

// String returns the normalized VIN.
func (v VehicleVIN) String() string { return v.value }
