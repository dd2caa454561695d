package model

import "errors"

// Failure taxonomy for the send pipeline and onboarding. Every one of these
// aborts at most the current attempt; none is fatal to the process.
var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrAppNotInstalled     = errors.New("messaging app not installed")
	ErrValidation          = errors.New("validation failed")
	ErrStorage             = errors.New("storage failure")
	ErrBusy                = errors.New("send already in progress")
)
