package interceptor

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/vitistack/authproxy/internal/credentials"
	"github.com/vitistack/authproxy/pkg/rest"
	"github.com/vitistack/authproxy/pkg/rest/request"
)

// credentialFields are the top level members of a token exchange body that never leave this package.
var credentialFields = []string{"access", "refresh"}

type tokenEnvelope struct {
	Access struct {
		Token string `json:"token"`
	} `json:"access"`
	Refresh struct {
		Token string `json:"token"`
	} `json:"refresh"`
}

// decodePair reads {access: {token}, refresh: {token}} from a token exchange body.
func decodePair(body []byte) (credentials.Pair, error) {
	env, err := request.DecodeBytes[tokenEnvelope](body)
	if err != nil {
		return credentials.Pair{}, errors.Join(ErrMissingTokens, err)
	}
	if env.Access.Token == "" || env.Refresh.Token == "" {
		return credentials.Pair{}, ErrMissingTokens
	}
	return credentials.Pair{
		AccessToken:  env.Access.Token,
		RefreshToken: env.Refresh.Token,
	}, nil
}

// sanitize strips credential fields from a JSON object body. Other bodies pass through untouched.
func sanitize(resp *Response) *Response {
	out := &Response{
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Header:     resp.Header.Clone(),
		Body:       resp.Body,
	}

	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return out
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return out
	}

	stripped := false
	for _, key := range credentialFields {
		if _, ok := fields[key]; ok {
			delete(fields, key)
			stripped = true
		}
	}
	if !stripped {
		return out
	}

	body, err := json.Marshal(fields)
	if err != nil {
		// never hand back a body we failed to clean
		body = []byte("{}")
	}
	out.Body = body
	if out.Header != nil {
		out.Header.Del(rest.HeaderContentLength)
	}
	return out
}
