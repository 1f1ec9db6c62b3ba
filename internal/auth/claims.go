// Package auth issues and verifies the JWTs that gate write access to a
// live bracket (spec §4.7). Grounded on
// other_examples/rbous-Champanzee__auth.go's claim-embedding style
// (a domain struct embedding jwt.RegisteredClaims) and built on
// golang-jwt/jwt/v5.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes an Auth token (grants mutation) from a
// Refresh token (grants only re-issuance). Domain-separated signing
// keys are the forgery-resistant distinction spec §3 requires — a
// Refresh token can never verify against the Auth key and vice versa.
type TokenKind uint8

const (
	TokenAuth TokenKind = iota
	TokenRefresh
)

func (k TokenKind) String() string {
	if k == TokenRefresh {
		return "refresh"
	}
	return "auth"
}

// Claims is the JWT payload of spec §3: subject, issued-at, expiry,
// not-before, and an opaque flags byte. Kind is not itself a JWT claim;
// it is implied by which key verified the signature.
type Claims struct {
	Sub   uint64 `json:"sub_id"`
	Flags uint8  `json:"flags"`
	jwt.RegisteredClaims
}
