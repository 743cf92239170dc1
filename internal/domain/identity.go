package domain

type Role string

const (
	RoleOwner  Role = "owner"
	RoleRenter Role = "renter"
)

// Identity is what the auth/KYC collaborator vouches for.
type Identity struct {
	UserID      int32
	MayTransact bool
}
