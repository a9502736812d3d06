package routes

import "net/http"

const (
	ROOT = "/"

	CONTROL      = ROOT + "_control" // control channel messages
	POST_CONTROL = http.MethodPost + " " + CONTROL

	STATUS     = ROOT + "_status" // session and refresh coordinator snapshot
	GET_STATUS = http.MethodGet + " " + STATUS

	METRICS     = ROOT + "_metrics"
	GET_METRICS = http.MethodGet + " " + METRICS

	PROXY = ROOT // everything else is dispatched upstream
)
