// Package cart implements the cart engine: identity resolution, the
// key-addressed cart store, the mutation operations, the guest-to-user
// merge performed at login, and the client-side cache with its change
// notifier.
package cart

import (
	"time"

	"github.com/google/uuid"
)

// IdentityKind separates authenticated shoppers from anonymous ones.
type IdentityKind int

const (
	KindGuest IdentityKind = iota
	KindUser
)

// GuestCookieName is the cookie carrying a guest's cart token.
const GuestCookieName = "guest_token"

// GuestCookieMaxAge is how long the guest token is kept client-side.
const GuestCookieMaxAge = 60 * 24 * time.Hour

// Identity addresses a cart: either an authenticated user or an anonymous
// guest holding an opaque token.
type Identity struct {
	Kind   IdentityKind
	UserID string
	Token  string
}

// UserIdentity addresses the cart of an authenticated user.
func UserIdentity(userID string) Identity {
	return Identity{Kind: KindUser, UserID: userID}
}

// GuestIdentity addresses the cart of an anonymous shopper.
func GuestIdentity(token string) Identity {
	return Identity{Kind: KindGuest, Token: token}
}

// Key returns the storage address for this identity. The prefixes keep
// user and guest keys disjoint.
func (id Identity) Key() string {
	if id.Kind == KindUser {
		return "user_" + id.UserID
	}
	return "guest_" + id.Token
}

// IsUser reports whether the identity belongs to an authenticated user.
func (id Identity) IsUser() bool {
	return id.Kind == KindUser
}

// NewGuestToken mints the opaque token persisted in the guest cookie.
func NewGuestToken() string {
	return uuid.NewString()
}
