package values

type contextKey string

const (
	ContextTracingKey contextKey = "tracing-context"

	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
)

// response statuses, mapped to HTTP codes by util.StatusCode
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	SystemErr      = "system-error"
	BadRequestBody = "bad-request-body"
	Unprocessable  = "unprocessable"
	NotFound       = "not-found"
	Conflict       = "conflict"
	NotAllowed     = "not-allowed"
)

// change feed topics
const (
	TopicItinerary = "itinerary"
	TopicJournal   = "journal"
)
