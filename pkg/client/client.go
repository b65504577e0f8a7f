package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kjanat/smite-client/pkg/api"
)

// Client talks to the Smite API on behalf of one developer account.
//
// A Client is safe for concurrent use by multiple goroutines. It holds at
// most one session at a time and refreshes it transparently when it expires;
// concurrent callers share a single createsession round trip.
//
// Do not copy a Client after first use.
type Client struct {
	signer   *api.Signer
	doer     api.HttpRequestDoer
	opts     *Options
	retrier  *Retrier
	sessions *sessionStore
}

// New creates a new Smite API client for the given developer credentials.
func New(developerID, authKey string, opts ...Option) (*Client, error) {
	if developerID == "" {
		return nil, errors.New("developerID cannot be empty")
	}
	if authKey == "" {
		return nil, errors.New("authKey cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	// Validate options
	if options.baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}
	if options.timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	if options.maxRetries < 0 {
		return nil, errors.New("maxRetries cannot be negative")
	}
	if options.retryWaitMin <= 0 {
		return nil, errors.New("retryWaitMin must be positive")
	}
	if options.retryWaitMax <= 0 {
		return nil, errors.New("retryWaitMax must be positive")
	}
	if options.retryWaitMin >= options.retryWaitMax {
		return nil, errors.New("retryWaitMin must be less than retryWaitMax")
	}
	if options.now == nil {
		return nil, errors.New("clock cannot be nil")
	}
	if options.logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	c := &Client{
		signer: &api.Signer{
			DeveloperID: developerID,
			AuthKey:     authKey,
			Now:         options.now,
		},
		doer:    options.transport(),
		opts:    options,
		retrier: newRetrier(options),
	}
	c.sessions = newSessionStore(options.now, options.logger, c.createSession)

	return c, nil
}

// Invoke calls an API method and decodes its JSON response into T.
//
// When requiresSession is true a live session id is obtained first, creating
// one if needed. args are appended to the request path in order and must
// already be formatted; they must not contain '/'.
//
// Invoke is the single path by which endpoint methods reach the network.
func Invoke[T any](ctx context.Context, c *Client, method string, requiresSession bool, args ...string) (T, error) {
	var result T
	err := c.retrier.Do(ctx, func() error {
		var sessionID string
		if requiresSession {
			session, err := c.sessions.ensure(ctx)
			if err != nil {
				return err
			}
			sessionID = session.ID
		}

		signature, timestamp := c.signer.Sign(method)
		u := api.BuildURL(c.opts.baseURL, method, c.signer.DeveloperID, signature, sessionID, timestamp, args...)

		var attempt T
		if err := c.dispatch(ctx, u, &attempt); err != nil {
			return err
		}
		result = attempt
		return nil
	})
	return result, err
}

// Session returns the current session, creating one if none is live.
func (c *Client) Session(ctx context.Context) (Session, error) {
	return c.sessions.ensure(ctx)
}

// ResetSession drops the stored session. The next call that requires a
// session creates a new one.
func (c *Client) ResetSession() {
	c.sessions.reset()
}

// dispatch performs one GET and decodes the body into out.
func (c *Client) dispatch(ctx context.Context, u string, out any) error {
	req, err := api.NewGetRequest(ctx, u, c.setUserAgent)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	if api.IsHTML(body) {
		return &HTMLError{
			Message:    api.HTMLMessage(body),
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

func (c *Client) setUserAgent(_ context.Context, req *http.Request) error {
	if c.opts.userAgent != "" {
		req.Header.Set("User-Agent", c.opts.userAgent)
	}
	return nil
}
