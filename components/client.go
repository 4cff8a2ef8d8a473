package components

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/atomic"
)

// ErrRetriesExhausted reports that the retry budget for transient transport
// failures was spent without a successful completion. It is distinguishable
// from the underlying transport error via errors.Is.
var ErrRetriesExhausted = errors.New("completion retries exhausted")

// Completer is the single outbound choke point of the system. Every component
// that talks to the completion service does so through a Completer.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Provider issues one chat completion request against a concrete service.
// Implementations must not retry internally; retry policy belongs to Client.
type Provider interface {
	Complete(ctx context.Context, messages []Message, resp *ApiResponse) (string, error)
}

// Client wraps a Provider with a bounded fixed-delay retry policy for
// transient transport failures. Non-transport failures propagate immediately.
type Client struct {
	provider   Provider
	maxRetries int
	retryDelay time.Duration
	// sleep is swappable for tests
	sleep func(time.Duration)

	calls        atomic.Int64
	inputTokens  atomic.Int64
	outputTokens atomic.Int64
}

var _ Completer = (*Client)(nil)

// ClientOption configures a Client
type ClientOption = func(*Client)

// WithMaxRetries sets the maximum number of attempts for transient failures.
func WithMaxRetries(maxRetries int) ClientOption {
	return func(c *Client) {
		if maxRetries > 0 {
			c.maxRetries = maxRetries
		}
	}
}

// WithRetryDelay sets the fixed delay between attempts.
func WithRetryDelay(delay time.Duration) ClientOption {
	return func(c *Client) {
		if delay >= 0 {
			c.retryDelay = delay
		}
	}
}

// NewClient returns a Client wrapping the given provider with the default
// retry policy of 3 attempts spaced 2 seconds apart.
func NewClient(provider Provider, options ...ClientOption) *Client {
	ret := &Client{
		provider:   provider,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
		sleep:      time.Sleep,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Complete issues a chat completion, retrying transient transport failures up
// to the configured budget. On success the response usage is folded into the
// client's aggregate counters.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		resp := new(ApiResponse)
		text, err := c.provider.Complete(ctx, messages, resp)
		c.calls.Inc()
		if err == nil {
			if usage := resp.Usage; usage != nil {
				c.inputTokens.Add(int64(usage.InputTokens))
				c.outputTokens.Add(int64(usage.OutputTokens))
			}
			return text, nil
		}
		if !IsTransientError(err) {
			return "", err
		}
		lastErr = err
		if attempt < c.maxRetries-1 {
			log.Printf("transient completion error on attempt %d, retrying in %v: %v", attempt+1, c.retryDelay, err)
			c.sleep(c.retryDelay)
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, c.maxRetries, lastErr)
}

// Calls returns the total number of provider calls issued so far.
func (c *Client) Calls() int64 {
	return c.calls.Load()
}

// Usage returns the aggregate token usage across all successful calls.
func (c *Client) Usage() ApiUsage {
	return ApiUsage{
		InputTokens:  int(c.inputTokens.Load()),
		OutputTokens: int(c.outputTokens.Load()),
	}
}

// IsTransientError reports whether an error is a connection-class failure
// worth retrying. Context cancellation, auth and malformed-response errors
// are not transient.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		// NXDOMAIN is definitive and not worth retrying
		return !dnsErr.IsNotFound
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
			errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.EPIPE) {
			return true
		}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	return false
}
