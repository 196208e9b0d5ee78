package wave

import "fmt"

// Error is implemented by every error returned from Client. The set of
// implementations is closed: TransportError, HTTPStatusError, DecodeError and
// MissingIDError. Callers can switch on the concrete type or use errors.As.
type Error interface {
	error
	waveError()
}

// TransportError reports a failure to complete the HTTP round trip, such as a
// DNS lookup failure, a refused connection, a timeout or a cancelled context.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wave %s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError reports a response outside the 2xx range. The body of such a
// response is never parsed.
type HTTPStatusError struct {
	Op     string
	URL    string
	Code   int
	Status string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("wave %s: unexpected status %d", e.Op, e.Code)
}

// DecodeError reports a search body that is not valid JSON or does not have
// the expected shape. Diagnostic is a short human readable hint.
type DecodeError struct {
	Diagnostic string
	Err        error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "wave search: decode: " + e.Diagnostic
	}
	return fmt.Sprintf("wave search: decode: %s: %v", e.Diagnostic, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingIDError is returned by Thumbnail when the item carries no id. No
// request is made in that case.
type MissingIDError struct{}

func (e *MissingIDError) Error() string {
	return "wave thumbnail: item has no id"
}

func (*TransportError) waveError()  {}
func (*HTTPStatusError) waveError() {}
func (*DecodeError) waveError()     {}
func (*MissingIDError) waveError()  {}
