package protocol

import "github.com/mark3labs/mcp-go/mcp"

// MCP Protocol Message Types

// InitializeResult represents an initialize response
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// ListToolsResult represents a tools/list response
type ListToolsResult struct {
	Tools []mcp.Tool `json:"tools"`
}

// CallToolRequest represents tools/call params
type CallToolRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// ToolCallResult represents the result of calling a tool
type ToolCallResult struct {
	Content []mcp.TextContent `json:"content"`
}

// NewTextResult wraps text as a single text content block
func NewTextResult(text string) *ToolCallResult {
	return &ToolCallResult{
		Content: []mcp.TextContent{mcp.NewTextContent(text)},
	}
}

// Legacy discovery dialect (mcp.discover)

// LegacyTool is a tool in the older function-calling discovery shape
type LegacyTool struct {
	Type     string         `json:"type"`
	Function LegacyFunction `json:"function"`
}

// LegacyFunction describes the callable part of a LegacyTool
type LegacyFunction struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Parameters  mcp.ToolInputSchema `json:"parameters"`
}

// DiscoverResult represents an mcp.discover response
type DiscoverResult struct {
	Tools []LegacyTool `json:"tools"`
}

// NewDiscoverResult re-expresses tools in the legacy discovery shape
func NewDiscoverResult(tools []mcp.Tool) *DiscoverResult {
	legacy := make([]LegacyTool, len(tools))
	for i, tool := range tools {
		legacy[i] = LegacyTool{
			Type: "function",
			Function: LegacyFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		}
	}
	return &DiscoverResult{Tools: legacy}
}

// EmptyResult is the acknowledgement returned for notifications on transports that always answer
type EmptyResult struct{}

// MCP Method Names
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodListTools   = "tools/list"
	MethodCallTool    = "tools/call"
	MethodDiscover    = "mcp.discover"
)
