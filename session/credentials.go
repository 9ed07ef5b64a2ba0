package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the access/refresh token pair of the signed in user.
// The access token is short-lived and sent on every mutating request; the refresh
// token is only ever sent to the renewal endpoint.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Anonymous reports whether there is no access token. Anonymous sessions must not be
// offered the join action.
func (c Credentials) Anonymous() bool {
	return c.AccessToken == ""
}

// AccessExpiry returns the exp claim of a JWT access token. ok is false for opaque
// tokens or tokens without exp.
func (c Credentials) AccessExpiry() (time.Time, bool) {
	return tokenExpiry(c.AccessToken)
}

// RefreshExpiry returns the exp claim of a JWT refresh token.
func (c Credentials) RefreshExpiry() (time.Time, bool) {
	return tokenExpiry(c.RefreshToken)
}

// RefreshOutlivesAccess reports whether the refresh token expires after the access token.
// Tokens whose expiry can't be read are assumed to be fine.
func (c Credentials) RefreshOutlivesAccess() bool {
	access, ok := c.AccessExpiry()
	if !ok {
		return true
	}
	refresh, ok := c.RefreshExpiry()
	if !ok {
		return true
	}
	return refresh.After(access)
}

// tokenExpiry reads exp without verifying the signature; the client has no key and only
// uses it for diagnostics.
func tokenExpiry(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
