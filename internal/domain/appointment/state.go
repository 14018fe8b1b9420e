package appointment

// Status is an appointment's lifecycle state.
type Status string

const (
	StatusBooked      Status = "booked"
	StatusConfirmed   Status = "confirmed"
	StatusCheckedIn   Status = "checked_in"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

// transitions is the full set of legal edges. Rescheduled re-enters the
// lifecycle as booked, so it never appears as a key.
var transitions = map[Status][]Status{
	StatusBooked:    {StatusConfirmed, StatusCheckedIn, StatusCancelled, StatusRescheduled, StatusNoShow},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusRescheduled, StatusNoShow},
	StatusCheckedIn: {StatusCompleted, StatusCancelled},
}

// effective folds the transient rescheduled marker back into booked for
// transition checks.
func effective(s Status) Status {
	if s == StatusRescheduled {
		return StatusBooked
	}
	return s
}

// CanTransition reports whether the edge from -> to is legal. Any pair
// not in the table is illegal, including self-transitions.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[effective(from)] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[effective(s)]) == 0
}

// IsActive reports whether the appointment occupies the provider's
// calendar.
func (s Status) IsActive() bool {
	switch effective(s) {
	case StatusBooked, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// ActiveStatuses lists every status that blocks a slot, including the
// rescheduled marker which stands in for booked.
func ActiveStatuses() []Status {
	return []Status{StatusBooked, StatusConfirmed, StatusCheckedIn, StatusRescheduled}
}
