// Package credentials holds the session token pair and account role of the process.
//
// A Store is constructed once at startup and handed to every component that reads or
// mutates credentials. Nothing in this package touches the network or the disk.
package credentials

import (
	"sync"
	"time"

	"github.com/vitistack/authproxy/pkg/auth/jwt"
)

var ErrMalformed = jwt.ErrMalformed

// Pair is the access/refresh token pair. An empty string means no token.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

func (p Pair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Role is an opaque account type tag, empty when unset.
type Role string

// Snapshot is a consistent view of the store at one point in time.
type Snapshot struct {
	Pair    Pair
	Role    Role
	Version uint64
}

type Store struct {
	mu      sync.RWMutex
	pair    Pair
	role    Role
	version uint64
}

func New() *Store {
	return &Store{}
}

func (s *Store) Get() Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

// Set replaces both tokens together.
func (s *Store) Set(pair Pair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.version++
}

// Clear drops both tokens and the account role.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = Pair{}
	s.role = ""
	s.version++
}

// SetIf replaces the pair only while the store is still at version, and reports whether it did.
func (s *Store) SetIf(version uint64, pair Pair) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return false
	}
	s.pair = pair
	s.version++
	return true
}

// ClearIf clears the store only while it is still at version, and reports whether it did.
func (s *Store) ClearIf(version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return false
	}
	s.pair = Pair{}
	s.role = ""
	s.version++
	return true
}

func (s *Store) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// SetRole does not bump the version, the role plays no part in refresh decisions.
func (s *Store) SetRole(role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = role
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.AccessToken != ""
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Pair:    s.pair,
		Role:    s.role,
		Version: s.version,
	}
}

// ExpirySeconds decodes the exp claim of token as unix seconds, without verifying its signature.
func ExpirySeconds(token string) (int64, error) {
	exp, err := jwt.Expiry(token)
	if err != nil {
		return 0, err
	}
	return exp.Unix(), nil
}

// Remaining is the lifetime left on token at now. Malformed tokens report ErrMalformed.
func Remaining(token string, now time.Time) (time.Duration, error) {
	return jwt.Remaining(token, now)
}
