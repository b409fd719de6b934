package meli

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the connection flow can surface. Handlers
// map each kind to exactly one HTTP outcome; no other error shapes cross
// the component boundary.
type Kind int

const (
	// KindUnauthenticated means the caller presented no valid session.
	KindUnauthenticated Kind = iota

	// KindConfiguration means server-side provider configuration is
	// missing. Operator-fixable only, never retried automatically.
	KindConfiguration

	// KindInvalidCallback means the provider reported an error or the
	// redirect was missing required parameters.
	KindInvalidCallback

	// KindExpiredOrUnknownState means the state token matched no stored
	// row (expired, already consumed, or forged).
	KindExpiredOrUnknownState

	// KindUpstreamExchangeFailure means the provider token endpoint
	// returned a non-2xx response or was unreachable.
	KindUpstreamExchangeFailure

	// KindPersistenceFailure means a storage write failed. When it
	// follows a successful exchange the issued token was not recorded,
	// which operators must be able to tell apart from exchange failure.
	KindPersistenceFailure

	// KindNotConnected means a refresh was attempted with no stored
	// refresh token.
	KindNotConnected
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConfiguration:
		return "configuration"
	case KindInvalidCallback:
		return "invalid_callback"
	case KindExpiredOrUnknownState:
		return "expired_or_unknown_state"
	case KindUpstreamExchangeFailure:
		return "upstream_exchange_failure"
	case KindPersistenceFailure:
		return "persistence_failure"
	case KindNotConnected:
		return "not_connected"
	default:
		return "unknown"
	}
}

// FlowError is the single error type returned from flow components.
type FlowError struct {
	Kind           Kind
	Message        string // user-facing summary
	Detail         string // operator diagnostics (e.g. upstream body)
	UpstreamStatus int    // provider HTTP status, when applicable
	Err            error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// NewFlowError builds a FlowError of the given kind.
func NewFlowError(kind Kind, message string, err error) *FlowError {
	return &FlowError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the flow error kind from err. Reports false when err is
// not a FlowError.
func KindOf(err error) (Kind, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
