package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/kjanat/smite-client/internal/smitetest"
)

func TestSessionAliveAt(t *testing.T) {
	created := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	s := Session{ID: "abc123", CreatedAt: created}

	tests := []struct {
		name  string
		delta time.Duration
		alive bool
	}{
		{name: "just created", delta: 0, alive: true},
		{name: "one minute", delta: time.Minute, alive: true},
		{name: "one second before ttl", delta: 899 * time.Second, alive: true},
		{name: "just before ttl", delta: SessionTTL - time.Nanosecond, alive: true},
		{name: "exactly ttl", delta: 900 * time.Second, alive: false},
		{name: "past ttl", delta: time.Hour, alive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.AliveAt(created.Add(tt.delta)); got != tt.alive {
				t.Errorf("expected alive=%v at +%v, got %v", tt.alive, tt.delta, got)
			}
		})
	}

	if !s.ExpiresAt().Equal(created.Add(15 * time.Minute)) {
		t.Errorf("expected expiry 15m after creation, got %v", s.ExpiresAt())
	}
}

func TestCreateSessionApproved(t *testing.T) {
	srv := newFakeServer(t)
	srv.HandleCreateSession(func(smitetest.Call) smitetest.Response {
		return smitetest.Response{Status: http.StatusOK, Body: approvedSessionBody("abc123")}
	})
	clock := newFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	c := newTestClient(t, srv, WithClock(clock.Now))

	session, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if session.ID != "abc123" {
		t.Errorf("expected session id abc123, got %s", session.ID)
	}
	if session.Status != "Approved" {
		t.Errorf("expected status Approved, got %s", session.Status)
	}
	if !session.CreatedAt.Equal(clock.Now()) {
		t.Errorf("expected CreatedAt %v, got %v", clock.Now(), session.CreatedAt)
	}
	wantServer := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	if !session.ServerTimestamp.Equal(wantServer) {
		t.Errorf("expected server timestamp %v, got %v", wantServer, session.ServerTimestamp)
	}
	if !session.AliveAt(clock.Now()) {
		t.Error("expected the new session to be live")
	}

	calls := srv.Calls("createsession")
	if len(calls) != 1 {
		t.Fatalf("expected 1 createsession call, got %d", len(calls))
	}
	if calls[0].SessionID != "" {
		t.Errorf("createsession must not carry a session segment, got %q", calls[0].SessionID)
	}
	if !calls[0].ValidSignature {
		t.Error("expected createsession to be signed correctly")
	}
}

func TestCreateSessionRejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status string
	}{
		{
			name:   "invalid signature",
			body:   `{"ret_msg":"Invalid Signature","session_id":"abc123","timestamp":"1/2/2024 3:04:05 PM"}`,
			status: "Invalid Signature",
		},
		{
			name:   "missing ret_msg",
			body:   `{"session_id":"abc123","timestamp":"1/2/2024 3:04:05 PM"}`,
			status: "",
		},
		{
			name:   "null ret_msg",
			body:   `{"ret_msg":null,"session_id":"abc123"}`,
			status: "",
		},
		{
			name:   "approved in a different case",
			body:   `{"ret_msg":"approved","session_id":"abc123"}`,
			status: "approved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t)
			body := tt.body
			srv.HandleCreateSession(func(smitetest.Call) smitetest.Response {
				return smitetest.Response{Status: http.StatusOK, Body: body}
			})
			c := newTestClient(t, srv)

			_, err := c.Session(context.Background())
			var re *RejectionError
			if !errors.As(err, &re) {
				t.Fatalf("expected RejectionError, got %T: %v", err, err)
			}
			if re.Status != tt.status {
				t.Errorf("expected status %q, got %q", tt.status, re.Status)
			}
			if re.Method != "createsession" {
				t.Errorf("expected method createsession, got %q", re.Method)
			}
			if _, ok := c.sessions.peek(); ok {
				t.Error("expected no session to be stored")
			}
		})
	}
}

func TestCreateSessionBadCredentials(t *testing.T) {
	srv := smitetest.NewServer(t, testDevID, "some-other-key")
	c := newTestClient(t, srv)

	_, err := c.GetMOTDs(context.Background())
	var re *RejectionError
	if !errors.As(err, &re) {
		t.Fatalf("expected RejectionError, got %T: %v", err, err)
	}
	if re.Status != "Invalid Signature" {
		t.Errorf("expected 'Invalid Signature', got %q", re.Status)
	}
	if len(srv.Calls("getmotd")) != 0 {
		t.Error("expected the endpoint request never to be attempted")
	}
}

func TestCreateSessionMissingID(t *testing.T) {
	for _, body := range []string{
		`{"ret_msg":"Approved","timestamp":"1/2/2024 3:04:05 PM"}`,
		`{"ret_msg":"Approved","session_id":"","timestamp":"1/2/2024 3:04:05 PM"}`,
	} {
		srv := newFakeServer(t)
		b := body
		srv.HandleCreateSession(func(smitetest.Call) smitetest.Response {
			return smitetest.Response{Status: http.StatusOK, Body: b}
		})
		c := newTestClient(t, srv)

		_, err := c.Session(context.Background())
		if !IsSessionUnavailable(err) {
			t.Errorf("body %s: expected ErrSessionUnavailable, got %v", body, err)
		}
	}
}

func TestCreateSessionMalformed(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(error) bool
	}{
		{name: "not json", body: `Approved`, check: IsParseError},
		{name: "array instead of object", body: `[{"ret_msg":"Approved"}]`, check: IsParseError},
		{name: "bad timestamp", body: `{"ret_msg":"Approved","session_id":"x","timestamp":"yesterday"}`, check: IsParseError},
		{name: "html page", body: `<html><body><p>Service Unavailable</p></body></html>`, check: IsHTMLError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t)
			body := tt.body
			srv.HandleCreateSession(func(smitetest.Call) smitetest.Response {
				return smitetest.Response{Status: http.StatusOK, Body: body}
			})
			c := newTestClient(t, srv)

			_, err := c.Session(context.Background())
			if !tt.check(err) {
				t.Errorf("unexpected error %T: %v", err, err)
			}
		})
	}
}

func TestSessionReusedWithinTTL(t *testing.T) {
	srv := newFakeServer(t)
	clock := newFakeClock(time.Now())
	c := newTestClient(t, srv, WithClock(clock.Now))
	ctx := context.Background()

	first, err := c.Session(ctx)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}

	clock.Advance(SessionTTL - time.Second)
	second, err := c.Session(ctx)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected session reuse, got %s then %s", first.ID, second.ID)
	}
	if got := srv.CreateSessionCalls(); got != 1 {
		t.Errorf("expected 1 createsession call, got %d", got)
	}

	clock.Advance(time.Second)
	third, err := c.Session(ctx)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if third.ID == first.ID {
		t.Error("expected a new session after the TTL")
	}
	if got := srv.CreateSessionCalls(); got != 2 {
		t.Errorf("expected 2 createsession calls, got %d", got)
	}
}

func TestSessionRefreshFailureDropsStaleSession(t *testing.T) {
	srv := newFakeServer(t)
	clock := newFakeClock(time.Now())
	c := newTestClient(t, srv, WithClock(clock.Now))
	ctx := context.Background()

	if _, err := c.Session(ctx); err != nil {
		t.Fatalf("Session: %v", err)
	}

	srv.HandleCreateSession(func(smitetest.Call) smitetest.Response {
		return smitetest.Response{Status: http.StatusOK, Body: `{"ret_msg":"Maximum number of active sessions reached."}`}
	})
	clock.Advance(SessionTTL)

	_, err := c.GetMOTDs(ctx)
	if !IsRejection(err) {
		t.Fatalf("expected the refresh's rejection, got %v", err)
	}
	if _, ok := c.sessions.peek(); ok {
		t.Error("expected the expired session to be dropped")
	}
}

func TestConcurrentCallersShareOneSession(t *testing.T) {
	srv := newFakeServer(t)
	srv.SetCreateSessionDelay(50 * time.Millisecond)
	c := newTestClient(t, srv)

	const n = 20
	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.Session(context.Background())
			ids[i], errs[i] = s.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("caller %d got session %s, expected %s", i, ids[i], ids[0])
		}
	}
	if got := srv.CreateSessionCalls(); got != 1 {
		t.Errorf("expected exactly 1 createsession call, got %d", got)
	}
}

func TestFailedCreationReleasesSlot(t *testing.T) {
	srv := newFakeServer(t)
	var mu sync.Mutex
	fail := true
	srv.HandleCreateSession(func(call smitetest.Call) smitetest.Response {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			fail = false
			return smitetest.Response{Status: http.StatusServiceUnavailable, Body: "<html><p>Service Unavailable</p></html>"}
		}
		return smitetest.Response{Status: http.StatusOK, Body: approvedSessionBody(srv.IssueSession())}
	})
	c := newTestClient(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.Session(ctx); !IsHTMLError(err) {
		t.Fatalf("expected HTMLError from the failed creation, got %v", err)
	}
	if _, err := c.Session(ctx); err != nil {
		t.Fatalf("expected the slot to be usable after a failure, got %v", err)
	}
	if got := srv.CreateSessionCalls(); got != 2 {
		t.Errorf("expected 2 createsession calls, got %d", got)
	}
}

func TestWaitingCallerCancellation(t *testing.T) {
	srv := newFakeServer(t)
	srv.SetCreateSessionDelay(200 * time.Millisecond)
	c := newTestClient(t, srv)

	done := make(chan error, 1)
	go func() {
		_, err := c.Session(context.Background())
		done <- err
	}()

	// Wait until the first caller holds the slot and is talking to the API.
	deadline := time.Now().Add(2 * time.Second)
	for srv.CreateSessionCalls() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("createsession was never called")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Session(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the waiting caller to give up, got %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("first caller: %v", err)
	}
	if _, err := c.Session(context.Background()); err != nil {
		t.Fatalf("Session after cancellation: %v", err)
	}
	if got := srv.CreateSessionCalls(); got != 1 {
		t.Errorf("expected 1 createsession call, got %d", got)
	}
}

func TestResetSession(t *testing.T) {
	srv := newFakeServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	first, err := c.Session(ctx)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	c.ResetSession()
	if _, ok := c.sessions.peek(); ok {
		t.Fatal("expected no session after reset")
	}

	second, err := c.Session(ctx)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a new session after reset")
	}
}
