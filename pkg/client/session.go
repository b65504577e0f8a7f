package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/kjanat/smite-client/pkg/api"
	"golang.org/x/sync/semaphore"
)

// SessionTTL is how long a session is reused before a new one is created.
// The server keeps sessions somewhat longer; refreshing early avoids racing
// its expiry.
const SessionTTL = 15 * time.Minute

// statusApproved is the only ret_msg that accepts a createsession call.
const statusApproved = "Approved"

// Session is a server-issued token required by most API methods.
type Session struct {
	ID string
	// CreatedAt is the local time the createsession request was sent.
	CreatedAt time.Time
	// ServerTimestamp is the creation time reported by the API.
	ServerTimestamp time.Time
	// Status is the raw ret_msg of the createsession response.
	Status string
}

// ExpiresAt returns the moment the session stops being reused.
func (s Session) ExpiresAt() time.Time {
	return s.CreatedAt.Add(SessionTTL)
}

// AliveAt reports whether the session may still be used at now.
func (s Session) AliveAt(now time.Time) bool {
	return now.Sub(s.CreatedAt) < SessionTTL
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	Timestamp Timestamp `json:"timestamp"`
}

// sessionStore holds at most one session. The semaphore is held across the
// whole check, create and read sequence so concurrent callers never issue
// more than one createsession call per expiry.
type sessionStore struct {
	sem     *semaphore.Weighted
	current *Session
	now     func() time.Time
	logger  *slog.Logger
	create  func(ctx context.Context) (*Session, error)
}

func newSessionStore(now func() time.Time, logger *slog.Logger, create func(context.Context) (*Session, error)) *sessionStore {
	return &sessionStore{
		sem:    semaphore.NewWeighted(1),
		now:    now,
		logger: logger,
		create: create,
	}
}

// ensure returns a live session, creating one if the slot is empty or expired.
func (s *sessionStore) ensure(ctx context.Context) (Session, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return Session{}, err
	}
	defer s.sem.Release(1)

	if s.current == nil || !s.current.AliveAt(s.now()) {
		s.current = nil

		created, err := s.create(ctx)
		if err != nil {
			return Session{}, err
		}
		s.current = created
		s.logger.DebugContext(ctx, "session created",
			slog.Time("created_at", created.CreatedAt),
			slog.Time("expires_at", created.ExpiresAt()),
		)
	}

	if s.current == nil || s.current.ID == "" {
		s.current = nil
		return Session{}, ErrSessionUnavailable
	}
	return *s.current, nil
}

// peek returns the stored session without refreshing it.
func (s *sessionStore) peek() (Session, bool) {
	_ = s.sem.Acquire(context.Background(), 1)
	defer s.sem.Release(1)

	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *sessionStore) reset() {
	_ = s.sem.Acquire(context.Background(), 1)
	defer s.sem.Release(1)

	s.current = nil
}

// createSession performs the createsession handshake. Only an "Approved"
// ret_msg is accepted; anything else is returned verbatim as a rejection.
func (c *Client) createSession(ctx context.Context) (*Session, error) {
	sentAt := c.opts.now()
	signature, timestamp := c.signer.Sign(api.MethodCreateSession)
	u := api.BuildURL(c.opts.baseURL, api.MethodCreateSession, c.signer.DeveloperID, signature, "", timestamp)

	var raw json.RawMessage
	if err := c.dispatch(ctx, u, &raw); err != nil {
		return nil, err
	}

	var status struct {
		RetMsg *string `json:"ret_msg"`
	}
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, &ParseError{Err: err}
	}

	retMsg := ""
	if status.RetMsg != nil {
		retMsg = *status.RetMsg
	}
	if retMsg != statusApproved {
		return nil, &RejectionError{Method: api.MethodCreateSession, Status: retMsg}
	}

	var resp sessionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ParseError{Err: err}
	}
	if resp.SessionID == "" {
		return nil, ErrSessionUnavailable
	}

	return &Session{
		ID:              resp.SessionID,
		CreatedAt:       sentAt,
		ServerTimestamp: resp.Timestamp.Time,
		Status:          retMsg,
	}, nil
}
