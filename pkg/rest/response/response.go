package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func JSON(w http.ResponseWriter, responseCode int, data any) error {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(responseCode)
	return json.NewEncoder(w).Encode(data)
}

func Err(w http.ResponseWriter, err Error, msg string) error {
	respErr, ok := Errors[err]
	if !ok {
		return fmt.Errorf("REST error response not found: %s", err)
	}
	respErr.Details = msg
	return JSON(w, respErr.Code, respErr)
}

// hop-by-hop headers are never copied onto a relayed response
var hopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
	"Content-Length":      {},
}

// Relay writes an already received upstream response to w.
func Relay(w http.ResponseWriter, status int, header http.Header, body []byte) error {
	for key, values := range header {
		if _, hop := hopHeaders[http.CanonicalHeaderKey(key)]; hop {
			continue
		}
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}
