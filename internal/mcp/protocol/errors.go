package protocol

import (
	"errors"
	"fmt"
)

// MCPError is an error that carries its own JSON-RPC code.
// Any error returned below the dispatcher may wrap one to override the default InternalError code.
type MCPError struct {
	Code    int
	Message string
}

// Error implements the error interface
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// ToJSONRPCError converts MCPError to JSONRPCError
func (e *MCPError) ToJSONRPCError() *JSONRPCError {
	return &JSONRPCError{
		Code:    e.Code,
		Message: e.Message,
	}
}

// Predefined MCP Errors

// NewInvalidRequestError is returned for envelopes that fail protocol checks
func NewInvalidRequestError() *MCPError {
	return &MCPError{Code: InvalidRequest, Message: "Invalid Request"}
}

// NewMethodNotFoundError is returned for unrecognized top-level methods
func NewMethodNotFoundError() *MCPError {
	return &MCPError{Code: MethodNotFound, Message: "Method not found"}
}

// NewToolNotFoundError is returned for tools/call with an unknown tool name
func NewToolNotFoundError() *MCPError {
	return &MCPError{Code: MethodNotFound, Message: "Tool not found"}
}

// NewInvalidParamsError creates a new invalid params error
func NewInvalidParamsError(detail string) *MCPError {
	if detail == "" {
		return &MCPError{Code: InvalidParams, Message: "Invalid params"}
	}
	return &MCPError{Code: InvalidParams, Message: "Invalid params: " + detail}
}

// StatusMessager is implemented by errors that carry a message from a remote service
type StatusMessager interface {
	StatusMessage() string
}

// DefaultErrorMessage is used when a failure carries no message at all
const DefaultErrorMessage = "Internal error"

// ErrorFromCause converts any failure into a JSON-RPC error.
//
// The code comes from a wrapped MCPError, otherwise InternalError. The message
// prefers the remote service's own message, then the local error text, then
// DefaultErrorMessage.
func ErrorFromCause(err error) *JSONRPCError {
	if err == nil {
		return &JSONRPCError{Code: InternalError, Message: DefaultErrorMessage}
	}

	code := InternalError
	message := ""

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		code = mcpErr.Code
		message = mcpErr.Message
	}

	var remote StatusMessager
	if errors.As(err, &remote) {
		if msg := remote.StatusMessage(); msg != "" {
			message = msg
		}
	}

	if message == "" {
		message = err.Error()
	}
	if message == "" {
		message = DefaultErrorMessage
	}

	return &JSONRPCError{Code: code, Message: message}
}
