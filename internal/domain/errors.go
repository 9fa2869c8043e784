package domain

import "fmt"

// TransportError indicates the remote completion service could not be
// reached at all (network failure, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteServiceError indicates the remote completion service answered with
// a non-success status.
type RemoteServiceError struct {
	StatusCode int
	Body       string
}

func (e *RemoteServiceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("completion service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("completion service returned status %d: %s", e.StatusCode, e.Body)
}

// IntentParseError indicates no decodable structured object could be
// located in the assistant's reply. Callers typically recover by showing
// the raw text as the assistant's turn.
type IntentParseError struct {
	Reason string
}

func (e *IntentParseError) Error() string {
	return fmt.Sprintf("intent parse failure: %s", e.Reason)
}

// InvalidOrderError indicates an attempt to record an order from an intent
// whose action is not CREATE_ORDER. Correct orchestration never produces
// this; it aborts the ledger step of the turn, not the turn itself.
type InvalidOrderError struct {
	Action Action
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("cannot record order from intent with action %q", e.Action)
}
