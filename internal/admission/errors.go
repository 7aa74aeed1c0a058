package admission

import "errors"

// Admission failures are sentinel errors so handlers can translate them with
// errors.Is. None of them leaves a partial registration behind.
var (
	// ErrInvalidInput is returned for malformed requests: quantity outside
	// [MinQuantity, MaxQuantity], empty ticket category, zero ids.
	ErrInvalidInput = errors.New("invalid registration request")

	// ErrEventNotFound is returned when the event id does not resolve.
	ErrEventNotFound = errors.New("event not found")

	// ErrParticipantNotFound is returned when the participant id does not resolve.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrDuplicateRegistration is returned when the participant already holds
	// a live registration for the event.
	ErrDuplicateRegistration = errors.New("already registered for this event")

	// ErrScheduleConflict is returned when the event overlaps another event
	// the participant holds a live registration for.
	ErrScheduleConflict = errors.New("schedule conflict with another registration")

	// ErrCapacityExceeded is returned when the request does not fit under the
	// event's capacity, counting both accepted and waitlisted seats.
	ErrCapacityExceeded = errors.New("event capacity exceeded")

	// ErrBusy is returned when the per-event lock could not be acquired in
	// time. The request was not processed and is safe to retry.
	ErrBusy = errors.New("event is busy, retry later")

	// ErrRegistrationNotFound is returned by Cancel for an unknown reference.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrNotLive is returned by Cancel when the registration was already
	// cancelled.
	ErrNotLive = errors.New("registration is not live")
)
