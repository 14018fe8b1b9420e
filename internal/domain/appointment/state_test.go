package appointment

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusBooked, StatusConfirmed, true},
		{StatusBooked, StatusCheckedIn, true},
		{StatusBooked, StatusCancelled, true},
		{StatusBooked, StatusRescheduled, true},
		{StatusBooked, StatusNoShow, true},
		{StatusBooked, StatusCompleted, false},
		{StatusConfirmed, StatusCheckedIn, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusCheckedIn, StatusCompleted, true},
		{StatusCheckedIn, StatusCancelled, true},
		{StatusCheckedIn, StatusNoShow, false},
		{StatusCancelled, StatusBooked, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusNoShow, StatusBooked, false},
		// Rescheduled behaves as booked.
		{StatusRescheduled, StatusConfirmed, true},
		{StatusRescheduled, StatusCheckedIn, true},
		{StatusRescheduled, StatusRescheduled, true},
		{StatusRescheduled, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusCancelled, StatusCompleted, StatusNoShow} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusBooked, StatusConfirmed, StatusCheckedIn, StatusRescheduled} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestIsActive(t *testing.T) {
	for _, s := range []Status{StatusBooked, StatusConfirmed, StatusCheckedIn, StatusRescheduled} {
		if !s.IsActive() {
			t.Errorf("%s should occupy the calendar", s)
		}
	}
	for _, s := range []Status{StatusCancelled, StatusCompleted, StatusNoShow} {
		if s.IsActive() {
			t.Errorf("%s should not occupy the calendar", s)
		}
	}
}
