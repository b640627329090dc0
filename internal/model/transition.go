package model

// PaymentOutcome is the result a payment provider reports for a payment.
type PaymentOutcome string

const (
	OutcomeApproved PaymentOutcome = "approved"
	OutcomeRejected PaymentOutcome = "rejected"
	OutcomePending  PaymentOutcome = "pending"
)

// Transition describes how a payment outcome moves a reservation: the
// target state and the states it may be applied from. A zero Transition
// means the outcome never changes state.
type Transition struct {
	To   ReservationState
	From []ReservationState
}

// Applies reports whether the transition moves a reservation that is
// currently in state s.
func (t Transition) Applies(s ReservationState) bool {
	for _, f := range t.From {
		if f == s {
			return true
		}
	}
	return false
}

// TransitionFor returns the monotonic transition for a payment outcome.
//
// An approval wins over every earlier non-confirming state but never
// revives a cancelled reservation. A rejection only moves a reservation
// that is still waiting for payment, so a stale or duplicate failure can
// not downgrade a confirmed one. Pending outcomes are informational.
func TransitionFor(o PaymentOutcome) Transition {
	switch o {
	case OutcomeApproved:
		return Transition{To: StateConfirmed, From: []ReservationState{StatePendingPayment, StatePaymentFailed}}
	case OutcomeRejected:
		return Transition{To: StatePaymentFailed, From: []ReservationState{StatePendingPayment}}
	default:
		return Transition{}
	}
}
