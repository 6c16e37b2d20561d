// ABOUTME: Bearer token verification for the MCP endpoint
// ABOUTME: Static shared-secret compare, optional HS256 JWTs, and a chain of both

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errors returned by Verify.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrMissingClaim   = errors.New("missing required claim")
	ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
)

// MinSecretLength is the minimum HS256 secret size accepted by NewJWTVerifier.
const MinSecretLength = 32

// StaticPrincipal is the principal ID granted to holders of the shared token.
const StaticPrincipal = "puch-client"

// TokenVerifier maps a bearer token to the principal that presented it.
type TokenVerifier interface {
	Verify(tokenString string) (principalID string, err error)
}

// StaticVerifier accepts exactly one configured token.
type StaticVerifier struct {
	token     []byte
	principal string
}

// NewStaticVerifier creates a verifier for the shared token. An empty token
// never verifies.
func NewStaticVerifier(token string) *StaticVerifier {
	return &StaticVerifier{token: []byte(token), principal: StaticPrincipal}
}

// Verify compares in constant time and returns StaticPrincipal on a match.
func (v *StaticVerifier) Verify(tokenString string) (string, error) {
	if len(v.token) == 0 || subtle.ConstantTimeCompare([]byte(tokenString), v.token) != 1 {
		return "", ErrInvalidToken
	}
	return v.principal, nil
}

// JWTVerifier accepts HS256 tokens minted by `startup-mcp token`.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier returns ErrSecretTooShort for secrets under MinSecretLength.
func NewJWTVerifier(secret []byte) (*JWTVerifier, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &JWTVerifier{secret: secret}, nil
}

// Verify checks the signature and expiry and returns the "sub" claim.
func (v *JWTVerifier) Verify(tokenString string) (principalID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return sub, nil
}

// Generate mints a token for principalID that expires after expiresIn.
func (v *JWTVerifier) Generate(principalID string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": principalID,
		"iat": now.Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// ChainVerifier tries each verifier in order and returns the first success.
type ChainVerifier []TokenVerifier

// Verify returns the first successful verification. If every verifier fails,
// an expiry error is preferred over a generic invalid token error.
func (c ChainVerifier) Verify(tokenString string) (string, error) {
	err := ErrInvalidToken
	for _, v := range c {
		if v == nil {
			continue
		}
		principalID, verr := v.Verify(tokenString)
		if verr == nil {
			return principalID, nil
		}
		if errors.Is(verr, ErrExpiredToken) {
			err = verr
		}
	}
	return "", err
}
