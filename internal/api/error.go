package api

import "encoding/json"

// Kind classifies a failed request into exactly one bucket.
type Kind int

const (
	// KindClientSetup: the request could not be built or sent at all.
	KindClientSetup Kind = iota
	// KindNoConnectivity: the device has no network connection.
	KindNoConnectivity
	// KindServer: a response arrived with a non-2xx status.
	KindServer
	// KindUnreachable: the request was sent, no response arrived, and the
	// connection itself looks fine. Implies the server is down.
	KindUnreachable
)

// Error is the single normalized failure value the pipeline hands to callers.
// Status is set only for KindServer. IsNetworkError lets the UI distinguish
// "no network" from "network present but request failed".
type Error struct {
	Kind           Kind
	Message        string
	Status         int
	IsNetworkError bool
	cause          error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func errNoConnectivity() *Error {
	return &Error{
		Kind:           KindNoConnectivity,
		Message:        "No internet connection",
		IsNetworkError: true,
	}
}

func errUnreachable(cause error) *Error {
	return &Error{
		Kind:    KindUnreachable,
		Message: "Server not reachable",
		cause:   cause,
	}
}

func errClientSetup(cause error) *Error {
	return &Error{
		Kind:    KindClientSetup,
		Message: cause.Error(),
		cause:   cause,
	}
}

// errServer extracts the backend's message or error field, falling back to a
// generic message when the body is not the conventional JSON shape.
func errServer(status int, body []byte) *Error {
	msg := "Server error"
	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		if m, ok := payload["message"].(string); ok && m != "" {
			msg = m
		} else if m, ok := payload["error"].(string); ok && m != "" {
			msg = m
		}
	}
	return &Error{Kind: KindServer, Message: msg, Status: status}
}
