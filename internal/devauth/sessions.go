package devauth

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vitistack/authproxy/pkg/auth/jwt"
	"github.com/vitistack/authproxy/pkg/persistence"
)

// session is one login. Both tokens of a pair carry its id; refreshing replaces the session.
type session struct {
	ID        string
	Subject   string
	Role      jwt.Role
	ExpiresAt time.Time
}

type tokenPair struct {
	Access  tokenBody `json:"access"`
	Refresh tokenBody `json:"refresh"`
}

type tokenBody struct {
	Token string `json:"token"`
}

type sessions struct {
	store      persistence.Store[session]
	issuer     *jwt.TokenIssuer
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// open starts a session for user and mints its token pair.
func (s *sessions) open(user User) (tokenPair, error) {
	now := s.now()
	sess := session{
		ID:        uuid.NewString(),
		Subject:   user.Name,
		Role:      user.Role,
		ExpiresAt: now.Add(s.refreshTTL),
	}

	access, err := s.mint(sess, jwt.AccessToken, now, now.Add(s.accessTTL))
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := s.mint(sess, jwt.RefreshToken, now, sess.ExpiresAt)
	if err != nil {
		return tokenPair{}, err
	}

	if err := s.store.Save(sess.ID, sess); err != nil {
		return tokenPair{}, fmt.Errorf("unable to save session: %w", err)
	}

	return tokenPair{
		Access:  tokenBody{Token: access},
		Refresh: tokenBody{Token: refresh},
	}, nil
}

// rotate spends the session named by claims and opens a new one for the same user.
// A refresh token can only be spent once.
func (s *sessions) rotate(claims *jwt.SessionClaims) (tokenPair, error) {
	sess, err := s.store.Load(claims.ID)
	if err != nil {
		return tokenPair{}, ErrSessionRevoked
	}
	if err := s.store.Delete(sess.ID); err != nil {
		// another refresh with the same token won the race
		return tokenPair{}, ErrSessionRevoked
	}
	return s.open(User{Name: sess.Subject, Role: sess.Role})
}

func (s *sessions) active(id string) bool {
	sess, err := s.store.Load(id)
	if err != nil {
		return false
	}
	return s.now().Before(sess.ExpiresAt)
}

func (s *sessions) close(id string) error {
	err := s.store.Delete(id)
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func (s *sessions) mint(sess session, use jwt.TokenUse, issued, expires time.Time) (string, error) {
	token, err := s.issuer.New(jwt.SessionClaims{
		Role: sess.Role,
		Use:  use,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.Subject,
			IssuedAt:  gojwt.NewNumericDate(issued),
			ExpiresAt: gojwt.NewNumericDate(expires),
		},
	})
	if err != nil {
		return "", fmt.Errorf("unable to sign %s token: %w", use, err)
	}
	return token, nil
}
