package bookings

// Status is the booking lifecycle state. The set is closed; anything else in
// the column is a bug.
type Status string

const (
	StatusPendingPayment      Status = "pending_payment"
	StatusPendingVerification Status = "pending_verification"
	StatusPendingApproval     Status = "pending_approval"
	StatusApproved            Status = "approved"
	StatusAdminRejected       Status = "admin_rejected"
	StatusConfirmed           Status = "confirmed"
	StatusCancelled           Status = "cancelled"
)

// transitions is the forward edge set of the lifecycle. Rejection and
// cancellation are reachable from any non terminal state and are handled in
// CanTransition.
var transitions = map[Status][]Status{
	StatusPendingPayment:      {StatusPendingVerification},
	StatusPendingVerification: {StatusPendingApproval},
	StatusPendingApproval:     {StatusApproved},
	StatusApproved:            {StatusConfirmed},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusPendingVerification, StatusPendingApproval,
		StatusApproved, StatusAdminRejected, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusAdminRejected || s == StatusCancelled
}

// CanTransition reports whether moving from s to next follows the lifecycle.
func (s Status) CanTransition(next Status) bool {
	if !next.Valid() || s.IsTerminal() {
		return false
	}
	if next == StatusCancelled || next == StatusAdminRejected {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OccupiesSeat reports whether a booking in this status keeps its seats out
// of the free pool. Rejected and cancelled bookings release their seats.
func (s Status) OccupiesSeat() bool {
	switch s {
	case StatusPendingPayment, StatusPendingVerification, StatusPendingApproval,
		StatusApproved, StatusConfirmed:
		return true
	}
	return false
}

// UnavailableStatuses lists every status whose seats count as taken.
func UnavailableStatuses() []Status {
	return []Status{
		StatusPendingPayment,
		StatusPendingVerification,
		StatusPendingApproval,
		StatusApproved,
		StatusConfirmed,
	}
}
