package shared

import "github.com/google/uuid"

// Principal is the authenticated actor behind a mutation. It is passed
// explicitly into every mutating call and stamped onto addedBy/updatedBy.
type Principal struct {
	UserID   uuid.UUID
	Username string
}

// NewPrincipal creates a principal for the given user
func NewPrincipal(userID uuid.UUID, username string) Principal {
	return Principal{UserID: userID, Username: username}
}

// SystemPrincipal is used by maintenance tooling that acts without a user
var SystemPrincipal = Principal{UserID: uuid.Nil, Username: "system"}

// IsZero reports whether no actor was supplied
func (p Principal) IsZero() bool {
	return p.UserID == uuid.Nil && p.Username == ""
}

// Validate rejects an empty principal
func (p Principal) Validate() error {
	if p.IsZero() {
		return NewValidationFailure(uuid.Nil, "an authenticated principal is required")
	}
	return nil
}
