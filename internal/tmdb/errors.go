package tmdb

import (
	"encoding/json"
	"fmt"

	"github.com/oliveagle/jsonpath"
)

// messagePaths are tried in order when extracting a message from an error body
var messagePaths = []string{"$.status_message", "$.message"}

// APIError is returned when TMDB answers with a non-2xx status
type APIError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// StatusMessage returns the upstream's own explanation, or "" when the body carries none
func (e *APIError) StatusMessage() string {
	var data interface{}
	if err := json.Unmarshal(e.Body, &data); err != nil {
		return ""
	}

	for _, path := range messagePaths {
		value, err := jsonpath.JsonPathLookup(data, path)
		if err != nil {
			continue
		}
		if msg, ok := value.(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}
