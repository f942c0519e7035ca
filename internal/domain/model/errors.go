package model

import (
	"errors"
	"fmt"

	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

var (
	// ErrIllegalArgument is returned when a transition receives an argument
	// the target state cannot accept (score below the approval floor, empty
	// rejection reason).
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrAmountExceedsVehicleLimit is returned when the requested credit
	// amount exceeds the maximum the vehicle can secure. It is an input
	// validation failure, so it also matches valueobject.ErrInvalidInput.
	ErrAmountExceedsVehicleLimit = fmt.Errorf(
		"%w: requested amount exceeds maximum credit for vehicle", valueobject.ErrInvalidInput)
)
