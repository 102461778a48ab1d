package service

import "errors"

// Sentinel errors shared across services. Handlers translate these to the
// wire error codes.
var (
	ErrClassNotFound        = errors.New("class not found")
	ErrRegistrantNotFound   = errors.New("registrant not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrFamilyNotFound       = errors.New("family not found")
	ErrDependentNotFound    = errors.New("dependent not found")

	ErrRegistrantInactive = errors.New("registrant account is inactive")
	ErrAlreadyRegistered  = errors.New("registrant already holds this class")
	ErrCapacityExceeded   = errors.New("class is at capacity")
	ErrScheduleConflict   = errors.New("class overlaps an existing registration")

	ErrRoomConflict        = errors.New("room is occupied during the requested window")
	ErrClassAlreadyOpen    = errors.New("class is already open")
	ErrAlreadyClosed       = errors.New("class is already inactive")
	ErrInvalidClassPayload = errors.New("class payload has an invalid date or time")

	ErrEmailTaken      = errors.New("email is already in use")
	ErrNotFamilyOwner  = errors.New("caller does not own this family")
	ErrFamilyExists    = errors.New("member already belongs to a family")
	ErrAlreadyInFamily = errors.New("member is already linked to the family")
	ErrOwnerRemoval    = errors.New("family owner cannot be removed from the family")
	ErrDependentTooOld = errors.New("dependent exceeds the maximum age")
	ErrStatusUnchanged = errors.New("account already has the requested status")
	ErrKindHasNoStatus = errors.New("dependents have no account status")
)
