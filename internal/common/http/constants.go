package http

const (
	HeaderContentType = "Content-Type"
	HeaderValueJson   = "application/json"

	HeaderSessionID = "X-Session-Id"
	HeaderRequestID = "X-Request-Id"
)
