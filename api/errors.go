package api

import (
	"fmt"
	"net/http"
)

// ServerMessage is the closed set of error messages the participation endpoint is known
// to return. Anything else decodes to MessageUnknown.
type ServerMessage int

const (
	MessageUnknown ServerMessage = iota
	MessageMaxMember
	MessageChargeMoney
)

const (
	maxMemberText   = "This challenge has max member"
	chargeMoneyText = "You need to charge money"
)

// ParseServerMessage maps the raw message text onto the enumeration.
func ParseServerMessage(text string) ServerMessage {
	switch text {
	case maxMemberText:
		return MessageMaxMember
	case chargeMoneyText:
		return MessageChargeMoney
	default:
		return MessageUnknown
	}
}

func (m ServerMessage) String() string {
	switch m {
	case MessageMaxMember:
		return "max_member"
	case MessageChargeMoney:
		return "charge_money"
	default:
		return "unknown"
	}
}

// APIError is a non-2xx response from the API.
type APIError struct {
	HTTPStatus int           // Status line code
	Status     int           // "status" field of the error body, 0 when absent
	Message    ServerMessage // "error.message" field, classified
	raw        string        // Original message text, for diagnostics only
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: http %d, status %d, message %q", e.HTTPStatus, e.Status, e.raw)
}

// RawMessage returns the unclassified message text for logging.
func (e *APIError) RawMessage() string {
	return e.raw
}

// Unauthorized reports whether the server rejected the access token. The body status
// decides when present; the HTTP status is only used when the body carried none.
// The message text plays no part.
func (e *APIError) Unauthorized() bool {
	if e.Status != 0 {
		return e.Status == http.StatusUnauthorized
	}
	return e.HTTPStatus == http.StatusUnauthorized
}

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
