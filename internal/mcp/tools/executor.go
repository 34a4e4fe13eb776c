package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// Arguments holds the untyped arguments of a tool call
type Arguments map[string]interface{}

// Executor runs one tool. It returns a JSON-serializable value or fails;
// failures are returned as-is and converted to protocol errors by the caller.
type Executor interface {
	Execute(ctx context.Context, args Arguments) (interface{}, error)
}

// ExecutorFunc adapts a plain function to the Executor interface
type ExecutorFunc func(ctx context.Context, args Arguments) (interface{}, error)

// Execute calls f(ctx, args)
func (f ExecutorFunc) Execute(ctx context.Context, args Arguments) (interface{}, error) {
	return f(ctx, args)
}

// has reports whether name is present with a non-null value
func (a Arguments) has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns the argument rendered as a query/path value, or "" when absent
func (a Arguments) String(name string) string {
	if !a.has(name) {
		return ""
	}
	return formatValue(a[name])
}

// StringOr returns the argument rendered as a string, or def when absent or null
func (a Arguments) StringOr(name, def string) string {
	if !a.has(name) {
		return def
	}
	return formatValue(a[name])
}

// Page returns the page argument, defaulting to 1
func (a Arguments) Page() string {
	return a.StringOr("page", "1")
}

// setIfPresent copies name into query when the argument is present and not null
func (a Arguments) setIfPresent(query url.Values, name string) {
	if a.has(name) {
		query.Set(name, formatValue(a[name]))
	}
}

// setIfTruthy copies name into query only when the argument is truthy
func (a Arguments) setIfTruthy(query url.Values, name string) {
	if v, ok := a[name]; ok && truthy(v) {
		query.Set(name, formatValue(v))
	}
}

// pathSegment renders an argument for use inside a URL path
func (a Arguments) pathSegment(name, def string) string {
	return url.PathEscape(a.StringOr(name, def))
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// truthy mirrors loose truthiness: nil, false, zero and "" are false
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}
