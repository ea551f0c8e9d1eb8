package model

import "time"

// ReqLogin is the login form / JSON body
type ReqLogin struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Session is an authenticated session. Token is the opaque bearer token issued by the remote API.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the session is known to have expired at now.
// Tokens without an expiry never expire on their own.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
