// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityAccess                        // Access token required
	SecurityTransact                      // Access token with may_transact
)

// EndpointSecurityConfig maps HTTP route names to their required security level.
// Routes missing from the map require an access token.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"healthz": SecurityPublic,

	// Listings
	"ListListings":   SecurityPublic,
	"GetListing":     SecurityPublic,
	"CreateListing":  SecurityAccess,
	"UpdateListing":  SecurityAccess,
	"Restock":        SecurityAccess,
	"ListMyListings": SecurityAccess,

	// Bookings - KYC gated
	"CreateBooking": SecurityTransact,
	"SubmitPayment": SecurityTransact,

	// Bookings
	"GetBooking":     SecurityAccess,
	"GetHistory":     SecurityAccess,
	"VerifyPayment":  SecurityAccess,
	"AdvanceBooking": SecurityAccess,
	"ListForOwner":   SecurityAccess,
	"ListForRenter":  SecurityAccess,

	// Wallet
	"GetBalance":      SecurityAccess,
	"ListSettlements": SecurityAccess,

	// Evidence
	"UploadEvidence":   SecurityTransact,
	"DownloadEvidence": SecurityAccess,
}

// SecurityFor returns the level for a route name.
func SecurityFor(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}
