package interceptor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vitistack/authproxy/internal/credentials"
	"github.com/vitistack/authproxy/internal/routing"
	"github.com/vitistack/authproxy/pkg/rest"
)

// Paths names the auth host endpoints that take part in the session lifecycle.
type Paths struct {
	Login   string
	Logout  string
	Refresh string
}

func DefaultPaths() Paths {
	return Paths{
		Login:   "/login",
		Logout:  "/logout",
		Refresh: "/refresh",
	}
}

// Rewriter turns intents into outbound requests carrying the right host and credential.
type Rewriter struct {
	router *routing.Router
	store  *credentials.Store
	paths  Paths
}

func NewRewriter(router *routing.Router, store *credentials.Store, paths Paths) *Rewriter {
	return &Rewriter{
		router: router,
		store:  store,
		paths:  paths,
	}
}

func (rw *Rewriter) Classify(path string) Exchange {
	switch {
	case routing.SamePath(path, rw.paths.Login):
		return ExchangeLogin
	case routing.SamePath(path, rw.paths.Refresh):
		return ExchangeRefresh
	case routing.SamePath(path, rw.paths.Logout):
		return ExchangeLogout
	}
	return ExchangeNone
}

// Rewrite resolves the destination of intent and attaches the credential it needs.
// The store is read here and nowhere earlier, so a retry picks up a rotated token.
func (rw *Rewriter) Rewrite(intent RouteIntent) (*OutboundRequest, error) {
	body, err := encodeBody(intent.Body)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(intent.Method)
	if method == "" {
		method = http.MethodGet
	}

	path := intent.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	snap := rw.store.Snapshot()
	exchange := rw.Classify(path)

	header := make(http.Header)
	header.Set(rest.HeaderContentType, rest.ContentTypeJSON)
	switch exchange {
	case ExchangeLogin:
		// credentials are being established, nothing to attach
	case ExchangeRefresh:
		header.Set(rest.HeaderAuthorization, rest.Bearer(snap.Pair.RefreshToken))
	default:
		header.Set(rest.HeaderAuthorization, rest.Bearer(snap.Pair.AccessToken))
	}

	return &OutboundRequest{
		Method:   method,
		BaseURL:  rw.router.Resolve(path),
		Path:     path,
		Header:   header,
		Body:     body,
		exchange: exchange,
		version:  snap.Version,
	}, nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return validJSON(b)
	case []byte:
		return validJSON(b)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return data, nil
}

func validJSON(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, ErrInvalidBody
	}
	return append([]byte(nil), data...), nil
}
