package appointment

import (
	"time"

	"github.com/carefind/carefind/internal/platform/apperror"
)

// transitions is the complete lifecycle table. Anything absent here is an
// invalid transition. Rating is not a status transition: it attaches data to
// a completed appointment and is handled separately by the service.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionAccept:  StatusConfirmed,
		ActionDecline: StatusCancelled,
	},
	StatusConfirmed: {
		ActionComplete: StatusCompleted,
		ActionCancel:   StatusCancelled,
	},
}

// Transition resolves the status an action moves an appointment into.
// Unknown combinations return an invalid-transition error naming the current
// state and the attempted action, without mutating anything.
func Transition(from Status, action Action) (Status, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return "", apperror.New(apperror.KindInvalidTransition,
		"cannot %s an appointment in state %q", action, from)
}

// ValidateBooking checks a requested date and time slot before an
// appointment is created. The date must not name a calendar day before
// today's and the slot must be one of the enumerated bookable times.
func ValidateBooking(date time.Time, slot string, now time.Time) error {
	// Compare the calendar days the timestamps name, not their instants.
	// A midnight date sent with a zone offset ahead of the server's clock
	// is still the same day, not yesterday.
	if date.Format(time.DateOnly) < now.Format(time.DateOnly) {
		return apperror.New(apperror.KindInvalidSlot, "appointment date cannot be in the past")
	}
	if !ValidSlot(slot) {
		return apperror.New(apperror.KindInvalidSlot, "time %q is not a bookable slot", slot)
	}
	return nil
}
