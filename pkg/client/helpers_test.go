package client

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kjanat/smite-client/internal/smitetest"
)

const (
	testDevID   = "1004"
	testAuthKey = "23DDF7C4A8B24EB19A3A8A8FF8B3C3E6"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stubDoer implements api.HttpRequestDoer and captures requests.
type stubDoer struct {
	mu       sync.Mutex
	status   int
	body     string
	err      error
	requests []*http.Request
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     http.Header{},
	}, nil
}

func (s *stubDoer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func newFakeServer(t *testing.T) *smitetest.Server {
	t.Helper()
	return smitetest.NewServer(t, testDevID, testAuthKey)
}

// newTestClient creates a client pointed at srv.
func newTestClient(t *testing.T, srv *smitetest.Server, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{
		WithBaseURL(srv.BaseURL()),
		WithTimeout(5 * time.Second),
	}, opts...)

	c, err := New(testDevID, testAuthKey, all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func approvedSessionBody(id string) string {
	return `{"ret_msg":"Approved","session_id":"` + id + `","timestamp":"1/2/2024 3:04:05 PM"}`
}
