package interceptor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/vitistack/authproxy/internal/credentials"
	"github.com/vitistack/authproxy/internal/routing"
	"github.com/vitistack/authproxy/pkg/auth"
	"github.com/vitistack/authproxy/pkg/auth/jwt"
	"github.com/vitistack/authproxy/pkg/rest/request/client"
)

// backend fakes the auth host and the data host of a session.
type backend struct {
	t      *testing.T
	issuer *jwt.TokenIssuer

	mu            sync.Mutex
	validAccess   map[string]bool
	refreshToken  string
	refreshStatus int
	refreshHold   chan struct{}
	afterRefresh  func()
	onRejectFn    func()

	dataCalls    atomic.Int32
	refreshCalls atomic.Int32
	loginCalls   atomic.Int32

	auth *httptest.Server
	data *httptest.Server
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{
		t:             t,
		issuer:        jwt.NewTokenIssuer([]byte("backend-secret")),
		validAccess:   make(map[string]bool),
		refreshStatus: http.StatusCreated,
	}

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /login", b.handleLogin)
	authMux.HandleFunc("POST /refresh", b.handleRefresh)
	authMux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	b.auth = httptest.NewServer(authMux)
	t.Cleanup(b.auth.Close)

	dataMux := http.NewServeMux()
	dataMux.HandleFunc("/jobs", b.handleJobs)
	b.data = httptest.NewServer(dataMux)
	t.Cleanup(b.data.Close)

	return b
}

func (b *backend) router() *routing.Router {
	router, err := routing.New(b.data.URL,
		routing.Route{Prefix: "/login", BaseURL: b.auth.URL},
		routing.Route{Prefix: "/logout", BaseURL: b.auth.URL},
		routing.Route{Prefix: "/refresh", BaseURL: b.auth.URL},
	)
	require.NoError(b.t, err)
	return router
}

// mint returns a signed access token expiring ttl from now; accepted says whether the data host honours it.
func (b *backend) mint(ttl time.Duration, accepted bool) string {
	token, err := b.issuer.New(jwt.SessionClaims{
		Use: jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
	require.NoError(b.t, err)

	b.mu.Lock()
	b.validAccess[token] = accepted
	b.mu.Unlock()
	return token
}

// session seeds store with an access token expiring ttl from now and a refresh token the auth host accepts.
func (b *backend) session(store *credentials.Store, ttl time.Duration, accepted bool) {
	refresh := uuid.NewString()
	b.mu.Lock()
	b.refreshToken = refresh
	b.mu.Unlock()

	store.Set(credentials.Pair{
		AccessToken:  b.mint(ttl, accepted),
		RefreshToken: refresh,
	})
}

func (b *backend) setRefreshStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshStatus = status
}

func (b *backend) holdRefresh() chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshHold = make(chan struct{})
	return b.refreshHold
}

// onRefresh runs fn after every successful refresh, before the response is written.
func (b *backend) onRefresh(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.afterRefresh = fn
}

// onReject runs fn every time the data host answers 401, before the response is written.
func (b *backend) onReject(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onRejectFn = fn
}

func (b *backend) rejectAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for token := range b.validAccess {
		b.validAccess[token] = false
	}
}

func (b *backend) handleJobs(w http.ResponseWriter, r *http.Request) {
	b.dataCalls.Add(1)

	token, _ := auth.BearerToken(r)
	b.mu.Lock()
	ok := b.validAccess[token]
	rejected := b.onRejectFn
	b.mu.Unlock()

	if !ok {
		if rejected != nil {
			rejected()
		}
		writeJSON(w, http.StatusUnauthorized, jwt.Errors[jwt.ErrUnAuthorized])
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": []string{"build", "deploy"}})
}

func (b *backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.loginCalls.Add(1)

	if r.Header.Get("Authorization") != "" {
		b.t.Errorf("login request carried an Authorization header")
	}

	var creds struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "hunter2" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bad credentials"})
		return
	}

	refresh := uuid.NewString()
	b.mu.Lock()
	b.refreshToken = refresh
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access":  map[string]string{"token": b.mint(5*time.Minute, true)},
		"refresh": map[string]string{"token": refresh},
		"user":    map[string]string{"name": creds.User},
	})
}

func (b *backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)

	b.mu.Lock()
	hold := b.refreshHold
	status := b.refreshStatus
	current := b.refreshToken
	b.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	token, _ := auth.BearerToken(r)
	if token != current {
		writeJSON(w, http.StatusUnauthorized, jwt.Errors[jwt.ErrUnAuthorized])
		return
	}

	if status != http.StatusCreated {
		writeJSON(w, status, jwt.Errors[jwt.ErrForbidden])
		return
	}

	refresh := uuid.NewString()
	b.mu.Lock()
	b.refreshToken = refresh
	after := b.afterRefresh
	b.mu.Unlock()

	access := b.mint(5*time.Minute, true)
	if after != nil {
		after()
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"access":  map[string]string{"token": access},
		"refresh": map[string]string{"token": refresh},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type fixture struct {
	backend    *backend
	store      *credentials.Store
	dispatcher *Dispatcher
	registry   *prometheus.Registry
}

func newFixture(t *testing.T, opts ...interceptorOption) *fixture {
	t.Helper()

	b := newBackend(t)
	store := credentials.New()
	registry := prometheus.NewRegistry()

	metrics, err := NewMetrics(registry, "test")
	require.NoError(t, err)

	httpClient, err := client.NewClient(5 * time.Second)
	require.NoError(t, err)

	opts = append([]interceptorOption{WithMetrics(metrics)}, opts...)

	return &fixture{
		backend:    b,
		store:      store,
		dispatcher: New(b.router(), store, httpClient, opts...),
		registry:   registry,
	}
}
