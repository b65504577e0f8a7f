package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kjanat/smite-client/pkg/api"
)

// Options configures the client behavior.
type Options struct {
	baseURL      string
	timeout      time.Duration
	httpClient   api.HttpRequestDoer
	userAgent    string
	maxRetries   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

func defaultOptions() *Options {
	return &Options{
		baseURL:      api.DefaultBaseURL,
		timeout:      30 * time.Second,
		userAgent:    "smite-client-go",
		maxRetries:   0,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 30 * time.Second,
		now:          time.Now,
		logger:       slog.New(slog.DiscardHandler),
	}
}

// Option configures the client.
type Option func(*Options)

// WithBaseURL overrides the API endpoint. Default is api.DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(o *Options) {
		o.baseURL = u
	}
}

// WithTimeout sets the HTTP request timeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.timeout = d
	}
}

// WithHTTPClient sets the transport used for all requests.
func WithHTTPClient(doer api.HttpRequestDoer) Option {
	return func(o *Options) {
		o.httpClient = doer
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		o.userAgent = ua
	}
}

// WithMaxRetries sets the maximum number of retry attempts for transport
// failures and 5xx HTML error pages. Default is 0: failures are returned
// to the caller immediately.
func WithMaxRetries(n int) Option {
	return func(o *Options) {
		o.maxRetries = n
	}
}

// WithRetryWait sets the min/max retry backoff duration.
// Default is 1s min, 30s max.
func WithRetryWait(min, max time.Duration) Option {
	return func(o *Options) {
		o.retryWaitMin = min
		o.retryWaitMax = max
	}
}

// WithClock replaces the wall clock used for signing timestamps and session
// expiry.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.now = now
	}
}

// WithLogger sets a logger for debug records about session creation and
// retries. The client never logs errors; it returns them.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

func (o *Options) transport() api.HttpRequestDoer {
	if o.httpClient != nil {
		return o.httpClient
	}
	return &http.Client{Timeout: o.timeout}
}
