package server

import (
	"context"
	"encoding/json"

	"tmdb-mcp-server/internal/jsonutil"
	"tmdb-mcp-server/internal/mcp/protocol"
	"tmdb-mcp-server/internal/mcp/tools"

	"github.com/sirupsen/logrus"
)

// Options selects the per-transport dialect of the dispatcher
type Options struct {
	// LegacyDialect enables mcp.discover and treats unknown methods as direct tool calls
	LegacyDialect bool

	// SilentNotifications suppresses every response to a notification, errors included
	SilentNotifications bool
}

// Dispatcher routes JSON-RPC requests to protocol handlers and tool executors.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	registry *tools.Registry
	info     protocol.ServerInfo
	options  Options
	logger   logrus.FieldLogger
}

// NewDispatcher creates a dispatcher over registry
func NewDispatcher(registry *tools.Registry, info protocol.ServerInfo, options Options, logger logrus.FieldLogger) *Dispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{
		registry: registry,
		info:     info,
		options:  options,
		logger:   logger,
	}
}

// Options returns the dialect flags the dispatcher was built with
func (d *Dispatcher) Options() Options {
	return d.options
}

// Dispatch handles one request. A nil response means nothing must be written.
func (d *Dispatcher) Dispatch(ctx context.Context, req *protocol.JSONRPCRequest) *protocol.JSONRPCResponse {
	resp := d.dispatch(ctx, req)

	if d.options.SilentNotifications && (req.IsNotification() || req.Method == protocol.MethodInitialized) {
		return nil
	}
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, req *protocol.JSONRPCRequest) *protocol.JSONRPCResponse {
	if req.JSONRPC != protocol.JSONRPCVersion || req.Method == "" {
		return d.failure(req, protocol.NewInvalidRequestError())
	}

	var (
		result interface{}
		err    error
	)

	switch req.Method {
	case protocol.MethodInitialize:
		result = d.handleInitialize()
	case protocol.MethodListTools:
		result = &protocol.ListToolsResult{Tools: d.registry.ListTools()}
	case protocol.MethodCallTool:
		result, err = d.handleCallTool(ctx, req.Params)
	case protocol.MethodInitialized:
		result = &protocol.EmptyResult{}
	case protocol.MethodDiscover:
		if !d.options.LegacyDialect {
			err = protocol.NewMethodNotFoundError()
			break
		}
		result = protocol.NewDiscoverResult(d.registry.ListTools())
	default:
		result, err = d.handleDirectCall(ctx, req.Method, req.Params)
	}

	if err != nil {
		return d.failure(req, err)
	}
	return protocol.NewResult(req.ID, result)
}

func (d *Dispatcher) handleInitialize() *protocol.InitializeResult {
	return &protocol.InitializeResult{
		ProtocolVersion: protocol.MCPProtocolVersion,
		Capabilities: protocol.Capabilities{
			Tools: &protocol.ToolsCapability{},
		},
		ServerInfo: d.info,
	}
}

// handleCallTool runs tools/call and wraps the output as a single text block
func (d *Dispatcher) handleCallTool(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var call protocol.CallToolRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &call); err != nil {
			return nil, protocol.NewInvalidParamsError(err.Error())
		}
	}
	if call.Name == "" {
		return nil, protocol.NewInvalidParamsError("tool name is required")
	}

	output, err := d.registry.Call(ctx, call.Name, call.Arguments)
	if err != nil {
		return nil, err
	}

	text, err := jsonutil.Text(output)
	if err != nil {
		return nil, err
	}
	return protocol.NewTextResult(text), nil
}

// handleDirectCall treats method as a tool name when the legacy dialect is on.
// The executor output is returned unwrapped.
func (d *Dispatcher) handleDirectCall(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	if !d.options.LegacyDialect || !d.registry.Has(method) {
		return nil, protocol.NewMethodNotFoundError()
	}

	args := tools.Arguments{}
	if len(params) > 0 && string(params) != "null" {
		if err := json.Unmarshal(params, &args); err != nil {
			return nil, protocol.NewInvalidParamsError(err.Error())
		}
	}

	return d.registry.Call(ctx, method, args)
}

func (d *Dispatcher) failure(req *protocol.JSONRPCRequest, err error) *protocol.JSONRPCResponse {
	rpcErr := protocol.ErrorFromCause(err)

	entry := d.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"id":     string(req.ID),
		"code":   rpcErr.Code,
	})
	if rpcErr.Code == protocol.InternalError {
		entry.WithError(err).Errorf("Error processing method '%s'", req.Method)
	} else {
		entry.Debugf("Rejected method '%s': %s", req.Method, rpcErr.Message)
	}

	return protocol.NewError(req.ID, rpcErr.Code, rpcErr.Message)
}
