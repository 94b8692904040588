package server

import (
	"errors"
	"fmt"
)

// JSON-RPC 2.0 error codes, -32001 is specific to the activity API
const (
	DefaultErrorCode            = -32000
	UnknownTransactionErrorCode = -32001
	InvalidRequestErrorCode     = -32600
	NotFoundErrorCode           = -32601
	InvalidParamsErrorCode      = -32602
	ParserErrorCode             = -32700
)

var (
	// ErrBatchRequestsDisabled is returned for batch requests when they are disabled via configuration
	ErrBatchRequestsDisabled = errors.New("batch requests are disabled")
	// ErrBatchRequestsLimitExceeded is returned for batch requests with more requests than the configured limit
	ErrBatchRequestsLimitExceeded = errors.New("batch requests limit exceeded")
)

// Error is the error returned by endpoints
type Error interface {
	Error() string
	ErrorCode() int
}

// ServerError is an RPC error with its JSON-RPC code
type ServerError struct {
	err  string
	code int
}

// NewServerError creates an RPC error, msg is formatted when args are given
func NewServerError(code int, msg string, args ...interface{}) *ServerError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &ServerError{code: code, err: msg}
}

func (e *ServerError) Error() string {
	return e.err
}

// ErrorCode returns the JSON-RPC error code
func (e *ServerError) ErrorCode() int {
	return e.code
}
