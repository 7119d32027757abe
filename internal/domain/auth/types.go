// Package auth issues and validates bearer tokens for partner applications.
package auth

import "time"

// Config drives token handling. An empty secret disables authentication.
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Claims are extracted from a validated token.
type Claims struct {
	Partner   string
	TokenID   string
	ExpiresAt time.Time
}
