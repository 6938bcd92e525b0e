// Package loans implements the loan renewal workflow: validating a
// proposed due date against the allowed renewal window and persisting
// it on a single book copy.
//
// Capability checks (only librarians may renew) belong to the HTTP
// shell; the service here can be called directly in tests without any
// authentication wiring.
package loans

import (
	"time"

	"github.com/bad-joke/locallibrary/internal/entities"
)

const (
	// RenewalWindowDays is how far into the future a due date may be
	// pushed. The window is inclusive on both ends: today and exactly
	// four weeks out are both valid.
	RenewalWindowDays = 28

	// DefaultRenewalDays is the proposal offered when the renewal form
	// is opened without an explicit date.
	DefaultRenewalDays = 21
)

// Field-level messages surfaced back to the form for correction.
const (
	reasonDateInPast = "renewal date is in the past"
	reasonDateTooFar = "renewal date is more than 4 weeks ahead"
	renewalDateField = "renewal_date"
)

// ValidationError is a business-rule failure on one input field. It is
// returned to the caller for re-display; no mutation happens when
// validation fails.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// DefaultRenewalDate returns the pre-filled proposal for a fresh
// renewal form: exactly three weeks from today.
func DefaultRenewalDate(today time.Time) time.Time {
	return entities.DateOnly(today).AddDate(0, 0, DefaultRenewalDays)
}

// ValidateRenewalDate checks that proposed falls inside the renewal
// window [today, today+4 weeks], comparing at day granularity. Returns
// nil when the date is acceptable.
func ValidateRenewalDate(proposed, today time.Time) *ValidationError {
	day := entities.DateOnly(today)
	date := entities.DateOnly(proposed)

	if date.Before(day) {
		return &ValidationError{Field: renewalDateField, Message: reasonDateInPast}
	}
	if date.After(day.AddDate(0, 0, RenewalWindowDays)) {
		return &ValidationError{Field: renewalDateField, Message: reasonDateTooFar}
	}
	return nil
}

// InstanceStore is the persistence surface the renewal workflow needs.
// Implemented by internal/database/instances.Repository.
type InstanceStore interface {
	GetByID(id string) (*entities.BookInstance, error)
	UpdateDueBack(id string, dueBack time.Time) error
}

// Service performs loan renewals.
type Service struct {
	store InstanceStore
	now   func() time.Time
}

// NewService creates a renewal service using the wall clock.
func NewService(store InstanceStore) *Service {
	return &Service{store: store, now: time.Now}
}

// NewServiceWithClock creates a renewal service with an injected clock
// for deterministic tests.
func NewServiceWithClock(store InstanceStore, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// Renew validates the proposed due date and, on success, overwrites
// the copy's due date. Status and borrower are left untouched.
//
// Renewals are accepted whatever the copy's current status. Concurrent
// renewals of the same copy each validate against "now" and the later
// write wins; there is no version stamp or conflict detection.
func (s *Service) Renew(instanceID string, proposed time.Time) (*entities.BookInstance, error) {
	instance, err := s.store.GetByID(instanceID)
	if err != nil {
		return nil, err
	}

	if verr := ValidateRenewalDate(proposed, s.now()); verr != nil {
		return nil, verr
	}

	dueBack := entities.DateOnly(proposed)
	if err := s.store.UpdateDueBack(instance.ID, dueBack); err != nil {
		return nil, err
	}

	instance.DueBack = &dueBack
	return instance, nil
}
