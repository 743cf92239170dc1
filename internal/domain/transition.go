package domain

// Guard names an extra precondition checked on top of the from-status match.
type Guard string

const (
	GuardNone Guard = ""
	// GuardPaymentPolicy closes the edge when approval requires verified evidence.
	GuardPaymentPolicy Guard = "payment_policy"
	// GuardEvidenceAttached requires an evidence reference on the booking.
	GuardEvidenceAttached Guard = "evidence_attached"
)

// Transition is one legal edge of the booking lifecycle.
type Transition struct {
	From  BookingStatus
	To    BookingStatus
	Actor Role
	Guard Guard

	ReleaseStock  bool
	ClearEvidence bool
	Settle        SettlementKind

	// PaymentGateOnly edges are taken by evidence submission, never by a status request.
	PaymentGateOnly bool
}

type edgeKey struct {
	from BookingStatus
	to   BookingStatus
}

// Transitions is the complete lifecycle graph.
var Transitions = []Transition{
	{From: BookingStatusPending, To: BookingStatusApproved, Actor: RoleOwner, Guard: GuardPaymentPolicy},
	{From: BookingStatusPending, To: BookingStatusRejected, Actor: RoleOwner, ReleaseStock: true},
	{From: BookingStatusPending, To: BookingStatusWaitingVerification, Actor: RoleRenter, Guard: GuardEvidenceAttached, PaymentGateOnly: true},

	{From: BookingStatusWaitingVerification, To: BookingStatusApproved, Actor: RoleOwner},
	{From: BookingStatusWaitingVerification, To: BookingStatusPending, Actor: RoleOwner, ClearEvidence: true},
	{From: BookingStatusWaitingVerification, To: BookingStatusRejected, Actor: RoleOwner, ReleaseStock: true},

	{From: BookingStatusApproved, To: BookingStatusRejected, Actor: RoleOwner, ReleaseStock: true},
	{From: BookingStatusApproved, To: BookingStatusShipped, Actor: RoleOwner},

	{From: BookingStatusShipped, To: BookingStatusActive, Actor: RoleRenter, Settle: SettlementOwnerPayout},
	{From: BookingStatusActive, To: BookingStatusReturned, Actor: RoleRenter},

	{From: BookingStatusReturned, To: BookingStatusCompleted, Actor: RoleOwner, Settle: SettlementDepositRefund},
	{From: BookingStatusReturned, To: BookingStatusDamaged, Actor: RoleOwner, Settle: SettlementDepositForfeit},
}

var transitionIndex = func() map[edgeKey]Transition {
	idx := make(map[edgeKey]Transition, len(Transitions))
	for _, t := range Transitions {
		idx[edgeKey{t.From, t.To}] = t
	}
	return idx
}()

// LookupTransition returns the edge from -> to, if the graph has one.
func LookupTransition(from, to BookingStatus) (Transition, bool) {
	t, ok := transitionIndex[edgeKey{from, to}]
	return t, ok
}

// Beneficiary is the party whose wallet a settlement credits.
func (k SettlementKind) Beneficiary() Role {
	switch k {
	case SettlementDepositRefund:
		return RoleRenter
	case SettlementOwnerPayout, SettlementDepositForfeit:
		return RoleOwner
	}
	return ""
}

// Amount is what a settlement of kind k credits for booking b.
func (k SettlementKind) Amount(b *Booking) int64 {
	switch k {
	case SettlementOwnerPayout:
		return b.OwnerPayout()
	case SettlementDepositRefund, SettlementDepositForfeit:
		return b.Deposit
	}
	return 0
}

// BeneficiaryID resolves the beneficiary role to a user on b.
func (k SettlementKind) BeneficiaryID(b *Booking) int32 {
	if k.Beneficiary() == RoleRenter {
		return b.RenterID
	}
	return b.OwnerID
}
