// Package uniprot implements the remote identifier-mapping client for the
// UniProt mapping service.
package uniprot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// MappingRequest describes one namespace-to-namespace mapping query for a
// single chunk of identifiers. Immutable once constructed.
type MappingRequest struct {
	// From is the source namespace abbreviation used by the service.
	From string

	// To is the target namespace abbreviation.
	To string

	// Format is the requested response format (for example "tab").
	Format string

	// Identifiers is the chunk being mapped, in input order.
	Identifiers []string
}

// Query returns the space-joined identifier payload of the request.
func (r MappingRequest) Query() string {
	return strings.Join(r.Identifiers, " ")
}

// Key returns a stable string identifying the request, used for cache keys.
func (r MappingRequest) Key() string {
	return r.From + "\x00" + r.To + "\x00" + r.Format + "\x00" + r.Query()
}

// ClientOptions configure a Client.
type ClientOptions struct {
	// BaseURL is the mapping endpoint.
	BaseURL string

	// ContactEmail is embedded in the User-Agent per service policy.
	ContactEmail string

	// UserAgent overrides the tool identification prefix of the
	// User-Agent header. Defaults to "idremap".
	UserAgent string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration
}

// Client issues mapping requests against the UniProt service.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient builds a Client from opts.
func NewClient(opts ClientOptions) *Client {
	agent := opts.UserAgent
	if agent == "" {
		agent = "idremap"
	}

	httpClient := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", fmt.Sprintf("%s (%s)", agent, opts.ContactEmail))

	return &Client{
		http: httpClient,
		url:  opts.BaseURL,
	}
}

// Map submits one mapping request and returns the raw response text.
// Connection-level failures surface as *TransportError, non-2xx responses
// as *ProtocolError. The response body is opaque to the client.
func (c *Client) Map(ctx context.Context, req MappingRequest) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from":   req.From,
			"to":     req.To,
			"format": req.Format,
			"query":  req.Query(),
		}).
		Get(c.url)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.IsError() {
		return "", &ProtocolError{StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	return string(resp.Body()), nil
}
