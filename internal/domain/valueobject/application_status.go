package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// ApplicationStatus – immutable value object
// ---------------------------------------------------------------------------

// ApplicationStatus represents the lifecycle stage of a credit application.
type ApplicationStatus struct {
	value string
}

const (
	appStatusPending   = "PENDING"
	appStatusApproved  = "APPROVED"
	appStatusRejected  = "REJECTED"
	appStatusCancelled = "CANCELLED"
	appStatusExpired   = "EXPIRED"
)

var (
	ApplicationStatusPending   = ApplicationStatus{value: appStatusPending}
	ApplicationStatusApproved  = ApplicationStatus{value: appStatusApproved}
	ApplicationStatusRejected  = ApplicationStatus{value: appStatusRejected}
	ApplicationStatusCancelled = ApplicationStatus{value: appStatusCancelled}
	ApplicationStatusExpired   = ApplicationStatus{value: appStatusExpired}
)

var validApplicationStatuses = map[string]ApplicationStatus{
	appStatusPending:   ApplicationStatusPending,
	appStatusApproved:  ApplicationStatusApproved,
	appStatusRejected:  ApplicationStatusRejected,
	appStatusCancelled: ApplicationStatusCancelled,
	appStatusExpired:   ApplicationStatusExpired,
}

// NewApplicationStatus creates an ApplicationStatus from a raw string.
func NewApplicationStatus(s string) (ApplicationStatus, error) {
	v, ok := validApplicationStatuses[s]
	if !ok {
		return ApplicationStatus{}, fmt.Errorf("%w: invalid application status %q", ErrInvalidInput, s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ApplicationStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ApplicationStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s ApplicationStatus) Equal(other ApplicationStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further transition is permitted from this
// status. Every status except PENDING is terminal.
func (s ApplicationStatus) IsTerminal() bool {
	return s.value != appStatusPending && s.value != ""
}

// ErrInvalidStatusTransition is returned by aggregate transitions attempted
// from a state that forbids them.
var ErrInvalidStatusTransition = errors.New("invalid status transition")
