package rest

const (
	ContentTypeJSON = "application/json"

	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
)

// Bearer formats token as an Authorization header value.
func Bearer(token string) string {
	return "Bearer " + token
}
