package participation

import (
	"github.com/jrsteele09/go-challenge-client/api"
	"github.com/jrsteele09/go-challenge-client/challenges"
	"github.com/pkg/errors"
)

// classifyFailure picks the failure kind for a Participate error. Free and paid
// challenges are classified by separate functions: a free challenge has no balance
// branch at all, whatever the server says.
func classifyFailure(challenge *challenges.Challenge, err error) Kind {
	if challenge.IsFree() {
		return classifyFreeFailure(err)
	}
	return classifyPaidFailure(err)
}

func classifyFreeFailure(err error) Kind {
	apiErr, kind, ok := asAPIError(err)
	if !ok {
		return kind
	}
	if apiErr.Unauthorized() {
		return KindUnauthorized
	}
	if apiErr.Message == api.MessageMaxMember {
		return KindCapacityExceeded
	}
	return KindUnclassified
}

func classifyPaidFailure(err error) Kind {
	apiErr, kind, ok := asAPIError(err)
	if !ok {
		return kind
	}
	if apiErr.Unauthorized() {
		return KindUnauthorized
	}
	switch apiErr.Message {
	case api.MessageMaxMember:
		return KindCapacityExceeded
	case api.MessageChargeMoney:
		return KindInsufficientBalance
	default:
		return KindUnclassified
	}
}

// asAPIError extracts the server error. When err is not one, ok is false and kind says
// what it is instead.
func asAPIError(err error) (*api.APIError, Kind, bool) {
	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		return nil, KindNetworkFailure, false
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return nil, KindUnclassified, false
	}
	return apiErr, KindUnclassified, true
}
