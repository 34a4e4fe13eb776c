package tools

import (
	"context"
	"fmt"
	"strings"

	"tmdb-mcp-server/internal/mcp/protocol"
	"tmdb-mcp-server/internal/tmdb"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// Entry pairs a tool descriptor with its executor
type Entry struct {
	Tool     mcp.Tool
	Executor Executor
}

// registeredTool is an Entry plus its compiled argument schema
type registeredTool struct {
	Entry
	required *gojsonschema.Schema // nil when the tool has no required arguments
}

// Registry is the name -> executor table. It is immutable once built, so
// concurrent requests share it without locking.
type Registry struct {
	tools map[string]*registeredTool
	order []string
}

// NewRegistry builds a registry from entries, preserving their order
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]*registeredTool, len(entries)),
		order: make([]string, 0, len(entries)),
	}

	for _, entry := range entries {
		if err := r.register(entry); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// NewTMDBRegistry binds every catalogue tool to its TMDB executor
func NewTMDBRegistry(client tmdb.Getter, images tmdb.Images) (*Registry, error) {
	handlers := NewExecutors(client, images).handlers()

	entries := make([]Entry, 0, len(catalogue))
	for _, tool := range Catalogue() {
		executor, ok := handlers[tool.Name]
		if !ok {
			return nil, fmt.Errorf("no executor for tool %s", tool.Name)
		}
		entries = append(entries, Entry{Tool: tool, Executor: executor})
	}

	return NewRegistry(entries...)
}

func (r *Registry) register(entry Entry) error {
	name := entry.Tool.Name
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if entry.Executor == nil {
		return fmt.Errorf("tool %s has no executor", name)
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	tool := &registeredTool{Entry: entry}

	// Only presence of required arguments is checked; types are coerced by the executors
	if required := entry.Tool.InputSchema.Required; len(required) > 0 {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]interface{}{
			"type":     "object",
			"required": required,
		}))
		if err != nil {
			return fmt.Errorf("failed to compile argument schema for %s: %w", name, err)
		}
		tool.required = schema
	}

	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// ListTools returns all tool descriptors in registration order
func (r *Registry) ListTools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].Tool)
	}
	return tools
}

// GetTool returns a tool descriptor by name
func (r *Registry) GetTool(name string) (mcp.Tool, bool) {
	tool, exists := r.tools[name]
	if !exists {
		return mcp.Tool{}, false
	}
	return tool.Tool, true
}

// Has reports whether name is a registered tool
func (r *Registry) Has(name string) bool {
	_, exists := r.tools[name]
	return exists
}

// Count returns the number of registered tools
func (r *Registry) Count() int {
	return len(r.order)
}

// Call validates arguments and runs the named tool.
// Unknown tools and missing required arguments fail before any executor runs.
func (r *Registry) Call(ctx context.Context, name string, args Arguments) (interface{}, error) {
	tool, exists := r.tools[name]
	if !exists {
		return nil, protocol.NewToolNotFoundError()
	}

	if args == nil {
		args = Arguments{}
	}

	if err := tool.validate(args); err != nil {
		return nil, err
	}

	return tool.Executor.Execute(ctx, args)
}

func (t *registeredTool) validate(args Arguments) error {
	if t.required == nil {
		return nil
	}

	result, err := t.required.Validate(gojsonschema.NewGoLoader(map[string]interface{}(args)))
	if err != nil {
		return protocol.NewInvalidParamsError(err.Error())
	}

	if !result.Valid() {
		var errMsgs []string
		for _, desc := range result.Errors() {
			errMsgs = append(errMsgs, desc.Description())
		}
		return protocol.NewInvalidParamsError(strings.Join(errMsgs, "; "))
	}

	return nil
}
