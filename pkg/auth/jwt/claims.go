package jwt

import (
	jwt "github.com/golang-jwt/jwt/v5"
)

type TokenUse string

const (
	AccessToken  TokenUse = "access"
	RefreshToken TokenUse = "refresh"
)

type Role string

const (
	ADMIN Role = "admin"
	USER  Role = "user"
)

type SessionClaims struct {
	Role Role     `json:"role,omitempty"`
	Use  TokenUse `json:"token_use"`
	jwt.RegisteredClaims
}
