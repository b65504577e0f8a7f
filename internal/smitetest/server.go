// Package smitetest provides an in-process fake of the Smite API for tests.
//
// The fake verifies signatures and timestamps the way the real API does,
// issues session ids from createsession and rejects calls that carry an
// unknown session. Method responses are registered per method name.
package smitetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kjanat/smite-client/pkg/api"
)

// Call is one request received by the fake.
type Call struct {
	Method         string
	DeveloperID    string
	Signature      string
	SessionID      string
	Timestamp      string
	Args           []string
	RequestID      string
	ValidSignature bool
}

// Response is what the fake answers for a call.
type Response struct {
	Status int
	Body   string
}

// HandlerFunc produces the response for a call.
type HandlerFunc func(call Call) Response

// Server is a fake Smite API.
type Server struct {
	*httptest.Server

	DeveloperID string
	AuthKey     string

	mu                 sync.Mutex
	sessions           map[string]bool
	handlers           map[string]HandlerFunc
	createSession      HandlerFunc
	createSessionDelay time.Duration
	calls              []Call
}

// NewServer starts a fake API accepting the given credentials. It is closed
// when the test ends.
func NewServer(t testing.TB, developerID, authKey string) *Server {
	t.Helper()

	s := &Server{
		DeveloperID: developerID,
		AuthKey:     authKey,
		sessions:    make(map[string]bool),
		handlers:    make(map[string]HandlerFunc),
	}
	s.createSession = s.approveSession

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHTML(w, http.StatusNotFound, "Endpoint not found.")
	})

	sub := r.PathPrefix("/smiteapi.svc").Subrouter()
	sub.HandleFunc("/createsessionJson/{devID}/{signature}/{timestamp}", s.handleCreateSession).
		Methods(http.MethodGet)
	sub.HandleFunc("/{method:[a-z]+}Json/{devID}/{signature}/{session}/{timestamp}", s.handleCall).
		Methods(http.MethodGet)
	sub.HandleFunc("/{method:[a-z]+}Json/{devID}/{signature}/{session}/{timestamp}/{args:.+}", s.handleCall).
		Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the value to pass to client.WithBaseURL.
func (s *Server) BaseURL() string {
	return s.URL + "/smiteapi.svc"
}

// Handle registers the response for a session-bound method.
func (s *Server) Handle(method string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = fn
}

// HandleJSON registers a fixed JSON response for a method.
func (s *Server) HandleJSON(method string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("smitetest: marshal %s response: %v", method, err))
	}
	s.Handle(method, func(Call) Response {
		return Response{Status: http.StatusOK, Body: string(body)}
	})
}

// HandleCreateSession overrides the createsession response.
func (s *Server) HandleCreateSession(fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createSession = fn
}

// SetCreateSessionDelay makes createsession wait before answering.
func (s *Server) SetCreateSessionDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createSessionDelay = d
}

// ExpireSessions forgets every issued session.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]bool)
}

// Calls returns the received calls for method, oldest first. An empty
// method returns every call.
func (s *Server) Calls(method string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Call
	for _, c := range s.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// CreateSessionCalls returns how many createsession calls were received.
func (s *Server) CreateSessionCalls() int {
	return len(s.Calls(api.MethodCreateSession))
}

// IssueSession registers a session id as valid and returns it.
func (s *Server) IssueSession() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = true
	return id
}

func (s *Server) approveSession(Call) Response {
	body, _ := json.Marshal(map[string]any{
		"ret_msg":    "Approved",
		"session_id": s.IssueSession(),
		"timestamp":  time.Now().UTC().Format("1/2/2006 3:04:05 PM"),
	})
	return Response{Status: http.StatusOK, Body: string(body)}
}

func (s *Server) record(r *http.Request, method string) (Call, bool) {
	vars := mux.Vars(r)
	call := Call{
		Method:      method,
		DeveloperID: vars["devID"],
		Signature:   vars["signature"],
		SessionID:   vars["session"],
		Timestamp:   vars["timestamp"],
		RequestID:   r.Header.Get("X-Request-ID"),
	}
	if args := vars["args"]; args != "" {
		call.Args = strings.Split(args, "/")
	}
	call.ValidSignature = call.DeveloperID == s.DeveloperID &&
		call.Signature == api.ComputeSignature(s.DeveloperID, method, s.AuthKey, call.Timestamp)

	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	_, err := time.Parse(api.TimestampLayout, call.Timestamp)
	return call, err == nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	call, ok := s.record(r, api.MethodCreateSession)
	if !ok {
		writeHTML(w, http.StatusBadRequest, "Invalid timestamp.")
		return
	}

	s.mu.Lock()
	delay := s.createSessionDelay
	fn := s.createSession
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if !call.ValidSignature {
		writeJSON(w, Response{Status: http.StatusOK, Body: `{"ret_msg":"Invalid Signature","session_id":"","timestamp":""}`})
		return
	}
	writeJSON(w, fn(call))
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	method := mux.Vars(r)["method"]
	call, ok := s.record(r, method)
	if !ok {
		writeHTML(w, http.StatusBadRequest, "Invalid timestamp.")
		return
	}

	s.mu.Lock()
	fn, known := s.handlers[method]
	validSession := s.sessions[call.SessionID]
	s.mu.Unlock()

	switch {
	case !known:
		writeHTML(w, http.StatusNotFound, "Endpoint not found.")
	case !call.ValidSignature:
		writeJSON(w, Response{Status: http.StatusOK, Body: `[{"ret_msg":"Invalid signature."}]`})
	case !validSession:
		writeJSON(w, Response{Status: http.StatusOK, Body: `[{"ret_msg":"Invalid session id."}]`})
	default:
		writeJSON(w, fn(call))
	}
}

func writeJSON(w http.ResponseWriter, resp Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if strings.HasPrefix(resp.Body, "<") {
		w.Header().Set("Content-Type", "text/html")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp.Body))
}

func writeHTML(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "<html><head><title>Request Error</title></head><body><h1>Request Error</h1><p>%s</p></body></html>", msg)
}
