package domain

import (
	"errors"
	"fmt"
)

// Error classes. Concrete errors below wrap one of these so callers can
// branch with errors.Is on the class.
var (
	ErrNotFound          = errors.New("not found")
	ErrOutOfStock        = errors.New("out of stock")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
	ErrTransient         = errors.New("temporarily unavailable")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyTerminal   = errors.New("booking already in terminal status")
)

var (
	ErrListingNotFound    = fmt.Errorf("listing %w", ErrNotFound)
	ErrBookingNotFound    = fmt.Errorf("booking %w", ErrNotFound)
	ErrPaymentNotVerified = fmt.Errorf("%w: payment evidence not verified", ErrInvalidTransition)
	ErrUnknownStatus      = fmt.Errorf("%w: unknown booking status", ErrInvalidInput)
	ErrInvalidDateRange   = fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	ErrInvalidAmount      = fmt.Errorf("%w: amount is negative or out of range", ErrInvalidInput)
	ErrSelfBooking        = fmt.Errorf("%w: owner cannot book own listing", ErrInvalidInput)
	ErrEvidenceMissing    = fmt.Errorf("%w: evidence reference does not exist", ErrInvalidInput)
	ErrKYCRequired        = fmt.Errorf("%w: identity not cleared to transact", ErrForbidden)
	ErrEvidenceNotOwned   = fmt.Errorf("%w: evidence was uploaded by another user", ErrForbidden)
)

// Transient wraps a low-level failure that is safe to retry from scratch.
func Transient(err error) error {
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
