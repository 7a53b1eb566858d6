// Package shopify talks to the Shopify Admin GraphQL API: it composes query
// documents for the catalog's operations and executes them over HTTP.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopmcp/shopify-mcp-server/internal/logger"
)

// Request is one composed GraphQL document plus its variables.
type Request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Executor sends a composed request upstream and returns the decoded data
// object. Implementations must be safe for concurrent use.
type Executor interface {
	Execute(ctx context.Context, req Request) (map[string]interface{}, error)
}

// Client is the Admin API executor.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

// NewClient builds a client for one shop. shopDomain may be the bare shop
// name or the full *.myshopify.com host.
func NewClient(shopDomain, accessToken, apiVersion string) *Client {
	host := shopDomain
	if !strings.Contains(host, ".") {
		host += ".myshopify.com"
	}
	return &Client{
		endpoint:    fmt.Sprintf("https://%s/admin/api/%s/graphql.json", host, apiVersion),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type graphqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute posts the request and returns the decoded data object. GraphQL
// errors and mutation userErrors surface as *APIError, everything else as
// *TransportError.
func (c *Client) Execute(ctx context.Context, req Request) (map[string]interface{}, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "execute request", Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("Failed to close response body: %v", cerr)
		}
	}()

	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, &TransportError{Op: "decode response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if len(decoded.Errors) > 0 {
			msg = decoded.Errors[0].Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if len(decoded.Errors) > 0 {
		msgs := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &APIError{Message: strings.Join(msgs, "; ")}
	}

	if err := userErrorsIn(decoded.Data); err != nil {
		return nil, err
	}

	return decoded.Data, nil
}

// userErrorsIn scans the top-level mutation payloads for a non-empty
// userErrors list. Mutations report validation failures there instead of in
// the errors array.
func userErrorsIn(data map[string]interface{}) error {
	for _, payload := range data {
		m, ok := payload.(map[string]interface{})
		if !ok {
			continue
		}
		raw, ok := m["userErrors"].([]interface{})
		if !ok || len(raw) == 0 {
			continue
		}
		msgs := make([]string, 0, len(raw))
		for _, ue := range raw {
			if uem, ok := ue.(map[string]interface{}); ok {
				if msg, ok := uem["message"].(string); ok {
					msgs = append(msgs, msg)
				}
			}
		}
		return &APIError{Message: strings.Join(msgs, "; ")}
	}
	return nil
}
