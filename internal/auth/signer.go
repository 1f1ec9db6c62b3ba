package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrWrongKind names a token of the wrong kind. Verify does not
	// return it: a token signed with the other kind's key already fails
	// the signature check, since the two kinds use distinct keys.
	ErrWrongKind = errors.New("auth: token kind does not match requested verification")
	// ErrClockSkew is returned when nbf is in the future or exp has
	// passed, with zero tolerance (spec §4.7).
	ErrClockSkew = errors.New("auth: token is not yet valid or has expired")
)

// Signer issues Auth and Refresh tokens from two domain-separated
// signing keys, per spec §4.7's "distinct domain-separated key"
// distinction. The signing method is fixed at construction and is one
// of HS256/HS384/HS512.
type Signer struct {
	method     jwt.SigningMethod
	authKey    []byte
	refreshKey []byte
	issuer     string
}

// NewSigner builds a Signer. method must be jwt.SigningMethodHS256,
// HS384, or HS512; any other value panics, since the configured
// algorithm is a deployment-time constant, not per-request input.
func NewSigner(method jwt.SigningMethod, authKey, refreshKey []byte, issuer string) *Signer {
	switch method {
	case jwt.SigningMethodHS256, jwt.SigningMethodHS384, jwt.SigningMethodHS512:
	default:
		panic("auth: signing method must be HS256, HS384, or HS512")
	}
	return &Signer{method: method, authKey: authKey, refreshKey: refreshKey, issuer: issuer}
}

func (s *Signer) keyFor(kind TokenKind) []byte {
	if kind == TokenRefresh {
		return s.refreshKey
	}
	return s.authKey
}

// Issue signs a token of the given kind for subject, valid from now
// until now+ttl.
func (s *Signer) Issue(kind TokenKind, subject uint64, flags uint8, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Sub:   subject,
		Flags: flags,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.keyFor(kind))
}

// IssuePair issues an Auth token and its companion Refresh token in one
// call, the shape internal/httpapi's login endpoint returns.
func (s *Signer) IssuePair(subject uint64, flags uint8, now time.Time, authTTL, refreshTTL time.Duration) (authToken, refreshToken string, err error) {
	authToken, err = s.Issue(TokenAuth, subject, flags, now, authTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.Issue(TokenRefresh, subject, flags, now, refreshTTL)
	if err != nil {
		return "", "", err
	}
	return authToken, refreshToken, nil
}

// Verify parses raw and checks its signature against kind's key, the
// configured algorithm (rejecting any other, spec §6.3), and exp/nbf
// with zero clock-skew tolerance. A token signed under the other kind's
// key fails here as an ordinary signature error — key domain separation
// is what makes kind forgery-resistant, so there is no separate
// "kind" claim to check.
func (s *Signer) Verify(raw string, kind TokenKind, now time.Time) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.keyFor(kind), nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || now.After(exp.Time) {
		return Claims{}, ErrClockSkew
	}
	nbf, err := claims.GetNotBefore()
	if err != nil || nbf == nil || now.Before(nbf.Time) {
		return Claims{}, ErrClockSkew
	}

	return claims, nil
}
