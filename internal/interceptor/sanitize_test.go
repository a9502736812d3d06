package interceptor

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "token pair is stripped",
			body: `{"access":{"token":"a"},"refresh":{"token":"r"},"user":{"name":"alice"}}`,
			want: `{"user":{"name":"alice"}}`,
		},
		{
			name: "only credentials leaves an empty object",
			body: `{"access":{"token":"a"},"refresh":{"token":"r"}}`,
			want: `{}`,
		},
		{
			name: "a lone access field is stripped",
			body: `{"access":"a","ok":true}`,
			want: `{"ok":true}`,
		},
		{
			name: "nested fields named access are left alone",
			body: `{"grant":{"access":"read"}}`,
			want: `{"grant":{"access":"read"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{
				Status: http.StatusOK,
				Header: http.Header{"Content-Length": {"999"}, "X-Trace": {"abc"}},
				Body:   []byte(tt.body),
			}

			got := sanitize(resp)

			assert.JSONEq(t, tt.want, string(got.Body))
			assert.Equal(t, "abc", got.Header.Get("X-Trace"))
			assert.Equal(t, http.StatusOK, got.Status)
			assert.NotContains(t, string(got.Body), `"refresh"`)
		})
	}
}

func TestSanitizeLeavesNonObjectsUntouched(t *testing.T) {
	for _, body := range []string{"", "plain text", `["access","refresh"]`, `{broken`, `"access"`} {
		resp := &Response{Status: http.StatusOK, Header: http.Header{}, Body: []byte(body)}
		got := sanitize(resp)
		assert.Equal(t, body, string(got.Body))
	}
}

func TestSanitizeDropsStaleContentLength(t *testing.T) {
	resp := &Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Length": {"64"}},
		Body:   []byte(`{"access":{"token":"a"},"refresh":{"token":"r"}}`),
	}

	got := sanitize(resp)

	assert.Empty(t, got.Header.Get("Content-Length"))
	assert.Equal(t, "64", resp.Header.Get("Content-Length"), "the upstream response must not be modified")
}

func TestDecodePair(t *testing.T) {
	pair, err := decodePair([]byte(`{"access":{"token":"a"},"refresh":{"token":"r"},"user":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "a", pair.AccessToken)
	assert.Equal(t, "r", pair.RefreshToken)

	for _, body := range []string{`{}`, `{"access":{"token":"a"}}`, `not json`, `{"access":"a","refresh":"r"}`} {
		_, err := decodePair([]byte(body))
		assert.ErrorIs(t, err, ErrMissingTokens, body)
	}
}
