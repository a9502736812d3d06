package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vitistack/authproxy/pkg/rest"
)

type Builder struct {
	baseURL   string
	path      string
	urlParams url.Values
	method    string
	header    http.Header
	body      []byte
	err       error
	ctx       context.Context
}

// NewBuilder starts a request against baseURL, for example "https://auth.example.com".
func NewBuilder(baseURL string) *Builder {
	return &Builder{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		urlParams: make(url.Values),
		header:    make(http.Header),
		method:    http.MethodGet, // default method
		ctx:       context.Background(),
	}
}

func (b *Builder) Build() (*http.Request, error) {
	if b.err != nil {
		return nil, fmt.Errorf("unable to build request: %w", b.err)
	}

	var body io.Reader
	if b.body != nil {
		body = bytes.NewReader(b.body)
	}

	req, err := http.NewRequestWithContext(b.ctx, b.method, b.String(), body)
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}

	for key, values := range b.header {
		req.Header[key] = append([]string(nil), values...)
	}

	return req, nil
}

// String returns the full request URL.
func (b *Builder) String() string {
	reqURL := b.baseURL + b.path
	if len(b.urlParams) > 0 {
		sep := "?"
		if strings.Contains(b.path, "?") {
			sep = "&"
		}
		reqURL += sep + b.urlParams.Encode()
	}
	return reqURL
}

// URL sets the path, which may already carry a query string.
func (b *Builder) URL(path string) *Builder {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	b.path = path
	return b
}

func (b *Builder) QueryParameter(key, val string) *Builder {
	b.urlParams.Add(key, val)
	return b
}

func (b *Builder) Method(method string) *Builder {
	b.method = strings.ToUpper(method)
	return b
}

func (b *Builder) GET() *Builder {
	b.method = http.MethodGet
	return b
}

func (b *Builder) POST() *Builder {
	b.method = http.MethodPost
	return b
}

func (b *Builder) PUT() *Builder {
	b.method = http.MethodPut
	return b
}

func (b *Builder) DELETE() *Builder {
	b.method = http.MethodDelete
	return b
}

func (b *Builder) PATCH() *Builder {
	b.method = http.MethodPatch
	return b
}

func (b *Builder) SetHeader(key, val string) *Builder {
	b.header.Set(key, val)
	return b
}

// Headers copies every value of header onto the request.
func (b *Builder) Headers(header http.Header) *Builder {
	for key, values := range header {
		for _, v := range values {
			b.header.Add(key, v)
		}
	}
	return b
}

func (b *Builder) WithJSONContentType() *Builder {
	b.SetHeader("Content-Type", rest.ContentTypeJSON)
	return b
}

// Body serializes body as JSON. A marshalling failure surfaces from Build.
func (b *Builder) Body(body any) *Builder {
	data, err := json.Marshal(body)
	if err != nil {
		b.err = err
		return b
	}
	return b.RawJSON(data)
}

// RawJSON uses data as an already encoded JSON payload.
func (b *Builder) RawJSON(data []byte) *Builder {
	b.body = data
	b.WithJSONContentType()
	return b
}

func (b *Builder) CTX(ctx context.Context) *Builder {
	b.ctx = ctx
	return b
}
