package service

import (
	"fmt"

	"rentshare-backend/internal/domain"
)

type TransitionRequest struct {
	Booking *domain.Booking
	ActorID int32
	Target  domain.BookingStatus
	// ViaPaymentGate is set only by evidence submission.
	ViaPaymentGate bool
}

// StateMachine validates requests against domain.Transitions. It never
// touches storage; the caller passes a booking read under its row lock.
type StateMachine struct {
	requirePaymentEvidence bool
}

func NewStateMachine(requirePaymentEvidence bool) *StateMachine {
	return &StateMachine{requirePaymentEvidence: requirePaymentEvidence}
}

// Resolve returns the edge to apply. noop is true when the booking is
// already in the target status, in which case nothing must be written. A
// repeat is only accepted from the role that could have made the move.
func (m *StateMachine) Resolve(req TransitionRequest) (edge domain.Transition, noop bool, err error) {
	b := req.Booking
	role, ok := b.PartyRole(req.ActorID)
	if !ok {
		return domain.Transition{}, false, fmt.Errorf("%w: user %d is not a party to booking %d", domain.ErrForbidden, req.ActorID, b.ID)
	}
	if req.Target == b.Status {
		if !entersStatus(role, b.Status, req.ViaPaymentGate) {
			return domain.Transition{}, false, fmt.Errorf("%w: the %s cannot move a booking to %s", domain.ErrForbidden, role, b.Status)
		}
		return domain.Transition{}, true, nil
	}
	if b.Status.IsTerminal() {
		return domain.Transition{}, false, fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidTransition, b.ID, b.Status)
	}

	edge, ok = domain.LookupTransition(b.Status, req.Target)
	if !ok || (edge.PaymentGateOnly && !req.ViaPaymentGate) {
		return domain.Transition{}, false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, b.Status, req.Target)
	}
	if role != edge.Actor {
		return domain.Transition{}, false, fmt.Errorf("%w: %s -> %s is taken by the %s", domain.ErrForbidden, edge.From, edge.To, edge.Actor)
	}

	switch edge.Guard {
	case domain.GuardPaymentPolicy:
		if m.requirePaymentEvidence {
			return domain.Transition{}, false, domain.ErrPaymentNotVerified
		}
	case domain.GuardEvidenceAttached:
		if b.EvidenceRef == nil {
			return domain.Transition{}, false, domain.ErrEvidenceMissing
		}
	}
	return edge, false, nil
}

func entersStatus(role domain.Role, status domain.BookingStatus, viaPaymentGate bool) bool {
	for _, t := range domain.Transitions {
		if t.To == status && t.Actor == role && (viaPaymentGate || !t.PaymentGateOnly) {
			return true
		}
	}
	return false
}
