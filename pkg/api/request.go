package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HttpRequestDoer performs HTTP requests. *http.Client satisfies it.
//
//revive:disable-next-line:var-naming // matches the generated client naming
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn mutates a request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// NewGetRequest builds a GET request for a fully assembled API URL. Every
// request carries a fresh X-Request-ID so calls can be correlated in logs.
func NewGetRequest(ctx context.Context, rawURL string, editors ...RequestEditorFn) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	for _, edit := range editors {
		if err := edit(ctx, req); err != nil {
			return nil, err
		}
	}
	return req, nil
}
