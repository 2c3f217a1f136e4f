package domain

import "errors"

// Domain errors, shared by every layer of the application.

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrSelfDelete         = errors.New("cannot delete own account")
)

// Vehicle errors
var (
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrVehicleAlreadyExists   = errors.New("vehicle already exists")
	ErrInvalidVehicleData     = errors.New("invalid vehicle data")
	ErrVehicleInUse           = errors.New("vehicle is in use")
	ErrVehicleNotAvailable    = errors.New("vehicle is not available")
	ErrInvalidMaintenanceKind = errors.New("invalid maintenance kind")
)

// Mutation errors
var (
	ErrMutationNotFound     = errors.New("mutation not found")
	ErrMutationCompleted    = errors.New("mutation already completed")
	ErrInvalidMutationData  = errors.New("invalid mutation data")
	ErrDriverPhotoRequired  = errors.New("driver photo required")
	ErrEndKmBelowStart      = errors.New("end km below start km")
	ErrMutationNotCompleted = errors.New("mutation is not completed")
)

// ErrInconsistentState marks a vehicle flagged InUse with no Ongoing mutation
// referencing it. This is a data defect in the backing store, not a
// recoverable condition; callers surface it as an internal error.
var ErrInconsistentState = errors.New("vehicle in use without ongoing mutation")

// ErrGateway wraps any failure reported by the persistence gateway. Writes
// behind this error were never applied locally; callers must not retry.
var ErrGateway = errors.New("persistence gateway error")
