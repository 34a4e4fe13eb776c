package protocol

import (
	"bytes"
	"encoding/json"
)

// JSON-RPC 2.0 Protocol Types

// JSONRPCVersion is the JSON-RPC version
const JSONRPCVersion = "2.0"

// MCPProtocolVersion is the MCP protocol version
const MCPProtocolVersion = "2024-11-05"

// JSONRPCRequest represents a JSON-RPC 2.0 request.
// ID is kept raw so that an absent id, an explicit null and a value can be told apart.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"` // string, number, or null
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id (absent or null).
func (r *JSONRPCRequest) IsNotification() bool {
	return len(r.ID) == 0 || bytes.Equal(bytes.TrimSpace(r.ID), []byte("null"))
}

// ParseRequest decodes one JSON-RPC envelope.
//
// Malformed JSON fails with ParseError and a payload that is not an object
// fails with InvalidRequest, both with a null id. An object whose members
// have the wrong types keeps its id but is returned without jsonrpc and
// method, so dispatching rejects it as an invalid request.
func ParseRequest(data []byte) (*JSONRPCRequest, *JSONRPCResponse) {
	if !json.Valid(data) {
		return nil, NewError(nil, ParseError, "Parse error")
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err == nil {
		return &req, nil
	}

	var loose map[string]json.RawMessage
	if err := json.Unmarshal(data, &loose); err != nil {
		return nil, NewError(nil, InvalidRequest, "Invalid Request")
	}
	return &JSONRPCRequest{ID: loose["id"]}, nil
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
// Build it with NewResult or NewError; exactly one of Result and Error is set.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// JSONRPCError represents a JSON-RPC 2.0 error
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResult creates a success response for id
func NewResult(id json.RawMessage, result interface{}) *JSONRPCResponse {
	if result == nil {
		result = struct{}{}
	}
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		Result:  result,
		ID:      normalizeID(id),
	}
}

// NewError creates a failure response for id
func NewError(id json.RawMessage, code int, message string) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		Error:   &JSONRPCError{Code: code, Message: message},
		ID:      normalizeID(id),
	}
}

// normalizeID maps an absent id to an explicit JSON null.
func normalizeID(id json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(id)) == 0 {
		return json.RawMessage("null")
	}
	return id
}

// JSON-RPC 2.0 Standard Error Codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// MCP-specific Types

// ServerInfo holds information about the server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities defines what features are supported
type Capabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability indicates tools support
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}
