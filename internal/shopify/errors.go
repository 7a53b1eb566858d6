package shopify

import "fmt"

// TransportError wraps network and decoding failures talking to the Admin API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("shopify %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError reports an upstream rejection: a non-2xx status, a top-level
// GraphQL error, or mutation userErrors embedded in a 200 response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("shopify API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("shopify API error: %s", e.Message)
}
