package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email is already registered")
	ErrEmailNotApproved   = errors.New("email is not on the approved list")
	ErrValidation         = errors.New("invalid input")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrForbidden          = errors.New("access denied")
	ErrNotDesignated      = errors.New("not the designated approver for this order")
	ErrStateConflict      = errors.New("transition not valid from the order's current state")
)
