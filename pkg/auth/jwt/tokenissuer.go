package jwt

import (
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"
)

type tokenIssuerOption func(issuer *TokenIssuer)

// TokenIssuer signs and verifies session tokens with a shared secret.
type TokenIssuer struct {
	secret        []byte
	signingMethod jwt.SigningMethod
}

func NewTokenIssuer(secret []byte, opts ...tokenIssuerOption) *TokenIssuer {
	issuer := &TokenIssuer{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS512,
	}

	for _, opt := range opts {
		opt(issuer)
	}

	return issuer
}

func WithSigningMethod(method jwt.SigningMethod) tokenIssuerOption {
	return func(issuer *TokenIssuer) {
		issuer.signingMethod = method
	}
}

func (ti *TokenIssuer) New(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(ti.signingMethod, claims).SignedString(ti.secret)
}

func (ti *TokenIssuer) SigningMethod() jwt.SigningMethod {
	return ti.signingMethod
}

// Verify checks the signature and expiry of tokenString and that it was issued for use.
func (ti *TokenIssuer) Verify(tokenString string, use TokenUse) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(t *jwt.Token) (any, error) {
			return ti.secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{ti.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims: unable to locate session claims section")
	}

	if claims.Use != use {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongTokenUse, use, claims.Use)
	}

	return claims, nil
}
