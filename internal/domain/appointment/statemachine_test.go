package appointment

import (
	"strings"
	"testing"
	"time"

	"github.com/carefind/carefind/internal/platform/apperror"
)

func TestTransition_Table(t *testing.T) {
	cases := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusPending, ActionAccept, StatusConfirmed},
		{StatusPending, ActionDecline, StatusCancelled},
		{StatusConfirmed, ActionComplete, StatusCompleted},
		{StatusConfirmed, ActionCancel, StatusCancelled},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.action)
		if err != nil {
			t.Errorf("%s/%s: unexpected error: %v", tc.from, tc.action, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s/%s: expected %s, got %s", tc.from, tc.action, tc.want, got)
		}
	}
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	actions := []Action{ActionAccept, ActionDecline, ActionComplete, ActionCancel}
	for _, from := range []Status{StatusCancelled, StatusCompleted} {
		for _, action := range actions {
			_, err := Transition(from, action)
			if err == nil {
				t.Errorf("%s/%s: expected rejection", from, action)
				continue
			}
			if apperror.KindOf(err) != apperror.KindInvalidTransition {
				t.Errorf("%s/%s: expected invalid transition kind, got %s", from, action, apperror.KindOf(err))
			}
		}
	}
}

func TestTransition_InvalidCombinations(t *testing.T) {
	cases := []struct {
		from   Status
		action Action
	}{
		{StatusPending, ActionComplete},
		{StatusPending, ActionCancel},
		{StatusConfirmed, ActionAccept},
		{StatusConfirmed, ActionDecline},
	}
	for _, tc := range cases {
		_, err := Transition(tc.from, tc.action)
		if apperror.KindOf(err) != apperror.KindInvalidTransition {
			t.Errorf("%s/%s: expected invalid transition, got %v", tc.from, tc.action, err)
		}
	}
}

func TestTransition_ErrorNamesStateAndAction(t *testing.T) {
	_, err := Transition(StatusCancelled, ActionAccept)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "cancelled") || !strings.Contains(msg, "accept") {
		t.Errorf("error should name state and action: %q", msg)
	}
}

func TestValidateBooking(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	if err := ValidateBooking(now, "09:00", now); err != nil {
		t.Errorf("today + 09:00: unexpected error: %v", err)
	}
	if err := ValidateBooking(now.AddDate(0, 0, 5), "14:30", now); err != nil {
		t.Errorf("future date: unexpected error: %v", err)
	}

	err := ValidateBooking(now.AddDate(0, 0, -1), "09:00", now)
	if apperror.KindOf(err) != apperror.KindInvalidSlot {
		t.Errorf("yesterday: expected invalid slot, got %v", err)
	}

	err = ValidateBooking(now, "08:00", now)
	if apperror.KindOf(err) != apperror.KindInvalidSlot {
		t.Errorf("08:00: expected invalid slot, got %v", err)
	}
}

func TestValidateBooking_TodayLaterClockTime(t *testing.T) {
	// Only the calendar day matters; a morning slot booked in the
	// afternoon of the same day is still accepted.
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if err := ValidateBooking(today, "09:00", now); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateBooking_ClientZoneAheadOfServer(t *testing.T) {
	// A same-day midnight date from a client whose zone is ahead of the
	// server is an earlier instant than the server's midnight, but it
	// names the same calendar day and must be accepted.
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, ist)

	if err := ValidateBooking(date, "09:00", now); err != nil {
		t.Errorf("same calendar day across zones: unexpected error: %v", err)
	}

	// A date naming yesterday is still rejected regardless of zone.
	err := ValidateBooking(date.AddDate(0, 0, -1), "09:00", now)
	if apperror.KindOf(err) != apperror.KindInvalidSlot {
		t.Errorf("yesterday in client zone: expected invalid slot, got %v", err)
	}
}

func TestValidSlot(t *testing.T) {
	for _, s := range Slots {
		if !ValidSlot(s) {
			t.Errorf("expected %s to be bookable", s)
		}
	}
	for _, s := range []string{"08:00", "12:00", "13:00", "17:00", "9:00", ""} {
		if ValidSlot(s) {
			t.Errorf("expected %s to be rejected", s)
		}
	}
}
