package interceptor

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/vitistack/authproxy/pkg/rest/request"
)

// RouteIntent is the request the hosting application wants made. It never names a host or a credential.
type RouteIntent struct {
	Method string
	Path   string
	Body   any // nil, json.RawMessage, []byte holding JSON, or any value encodable as JSON
}

// Exchange classifies an intent by the role it plays in the session.
type Exchange int

const (
	ExchangeNone Exchange = iota
	ExchangeLogin
	ExchangeLogout
	ExchangeRefresh
)

func (e Exchange) String() string {
	switch e {
	case ExchangeLogin:
		return "login"
	case ExchangeLogout:
		return "logout"
	case ExchangeRefresh:
		return "refresh"
	}
	return "none"
}

// OutboundRequest is a fully resolved request, built fresh for every attempt.
type OutboundRequest struct {
	Method  string
	BaseURL string
	Path    string
	Header  http.Header
	Body    []byte

	exchange Exchange
	version  uint64 // credential store version the request was built against
}

func (o *OutboundRequest) URL() string {
	return o.BaseURL + o.Path
}

func (o *OutboundRequest) Exchange() Exchange {
	return o.exchange
}

// HTTPRequest materializes the request for transmission.
func (o *OutboundRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	b := request.NewBuilder(o.BaseURL).
		CTX(ctx).
		Method(o.Method).
		URL(o.Path).
		Headers(o.Header)
	if o.Body != nil {
		b.RawJSON(o.Body)
	}
	return b.Build()
}

// Response is what callers get back. Token exchange bodies have their credential fields stripped.
type Response struct {
	Status     int
	StatusText string
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
