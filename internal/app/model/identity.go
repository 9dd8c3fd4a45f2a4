package model

// IdentityKind tells the checkout flow what the current actor is
// allowed to do. Mutated only by explicit login/signup/logout (and by a
// completed guest order, which promotes anonymous to guest).
type IdentityKind string

const (
	IdentityAnonymous     IdentityKind = "anonymous"
	IdentityGuest         IdentityKind = "guest"
	IdentityAuthenticated IdentityKind = "authenticated"
)

// User mirrors the account object returned by the upstream auth API.
type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// Identity is the session's actor. Token is the upstream-issued auth
// token, present only when authenticated; it is opaque to this service
// beyond being replayed on upstream calls.
type Identity struct {
	Kind  IdentityKind `json:"kind"`
	User  *User        `json:"user,omitempty"`
	Token string       `json:"-"`
}

// Anonymous is the zero identity for a fresh session.
func Anonymous() *Identity {
	return &Identity{Kind: IdentityAnonymous}
}
