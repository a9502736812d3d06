package devauth

import "net/http"

const (
	ROOT = "/"

	LOGIN    = ROOT + "login"
	LOGOUT   = ROOT + "logout"
	REFRESH  = ROOT + "refresh"
	REGISTER = ROOT + "register"

	POST_LOGIN    = http.MethodPost + " " + LOGIN
	POST_LOGOUT   = http.MethodPost + " " + LOGOUT
	POST_REFRESH  = http.MethodPost + " " + REFRESH
	POST_REGISTER = http.MethodPost + " " + REGISTER

	// sample data host routes, guarded by an access token
	ME        = ROOT + "me"
	ITEMS     = ROOT + "items"
	GET_ME    = http.MethodGet + " " + ME
	GET_ITEMS = http.MethodGet + " " + ITEMS
)
