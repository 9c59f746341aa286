package monerorpc

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned by New when the given Config cannot produce a usable client.
	ErrConfiguration = errors.New("invalid client configuration")
	// ErrInvalidArgument is returned when a call is rejected locally before reaching the remote service.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidHeight is returned when a height beyond the known chain is requested.
	ErrInvalidHeight = errors.New("invalid height")
	// ErrMalformedHash is returned when a hex value does not decode to the expected number of bytes.
	ErrMalformedHash = errors.New("malformed hash")
	// ErrTransferNotFound is returned by the wallet when a txid doesn't belong to any known transfer.
	ErrTransferNotFound = errors.New("transfer not found")
)

// TransportErrorKind classifies a failed HTTP round trip.
type TransportErrorKind int

const (
	TransportConnection TransportErrorKind = iota
	TransportTimeout
	TransportStatus
	TransportTLS
)

func (k TransportErrorKind) String() string {
	switch k {
	case TransportConnection:
		return "connection"
	case TransportTimeout:
		return "timeout"
	case TransportStatus:
		return "status"
	case TransportTLS:
		return "tls"
	default:
		return "unknown"
	}
}

// TransportError is returned when the request never produced a usable HTTP response.
type TransportError struct {
	Kind TransportErrorKind
	// StatusCode is only set for TransportStatus.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Kind == TransportStatus {
		return fmt.Sprintf("transport %s error: unexpected http status %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("transport %s error: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when the response body is not a valid JSON-RPC envelope.
type ProtocolError struct {
	Err  error
	Body []byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed rpc response: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// RemoteError is the error object reported by the daemon or the wallet.
type RemoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// StatusError is returned when a result carries a status other than "OK".
type StatusError struct {
	Method string
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %q", e.Method, e.Status)
}

// DecodingError is returned when a result doesn't match the type expected for the method.
type DecodingError struct {
	Method string
	Err    error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode %s result: %v", e.Method, e.Err)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// remoteCode reports the code of a RemoteError in err's chain.
func remoteCode(err error) (int, bool) {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Code, true
	}
	return 0, false
}
