package jwt

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiry(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)

	withExp, err := issuer.New(SessionClaims{
		Use: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	require.NoError(t, err)

	withoutExp, err := issuer.New(SessionClaims{Use: AccessToken})
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    time.Time
		wantErr error
	}{
		{
			name:  "valid-token",
			token: withExp,
			want:  exp,
		},
		{
			name:    "empty-token",
			token:   "",
			wantErr: ErrMalformed,
		},
		{
			name:    "garbage-token",
			token:   "not.a.jwt",
			wantErr: ErrMalformed,
		},
		{
			name:    "missing-exp",
			token:   withoutExp,
			wantErr: ErrMissingExpiry,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expiry(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %v, got %v", tt.want, got)
		})
	}
}

func TestExpiryIgnoresSignature(t *testing.T) {
	token, err := NewTokenIssuer([]byte("someone-elses-secret")).New(SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	require.NoError(t, err)

	remaining, err := Remaining(token, time.Now())
	require.NoError(t, err)
	assert.Negative(t, remaining)
}

func TestVerify(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))
	refresh, err := issuer.New(SessionClaims{
		Use:  RefreshToken,
		Role: USER,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	claims, err := issuer.Verify(refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)

	_, err = issuer.Verify(refresh, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenUse)

	_, err = NewTokenIssuer([]byte("other")).Verify(refresh, RefreshToken)
	assert.Error(t, err)
}
