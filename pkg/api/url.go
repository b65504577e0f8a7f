package api

import (
	"strings"
)

// DefaultBaseURL is the production endpoint of the Smite API.
const DefaultBaseURL = "https://api.smitegame.com/smiteapi.svc"

// MethodCreateSession is the handshake method that issues session ids.
const MethodCreateSession = "createsession"

// BuildURL assembles the positional request path:
//
//	{base}/{method}Json/{developerID}/{signature}/[{sessionID}/]{timestamp}[/{arg}]*
//
// The session segment is emitted only when sessionID is non-empty. Arguments
// are appended verbatim; callers must not pass values containing '/'.
func BuildURL(base, method, developerID, signature, sessionID, timestamp string, args ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/")
	b.WriteString(method)
	b.WriteString("Json/")
	b.WriteString(developerID)
	b.WriteString("/")
	b.WriteString(signature)
	b.WriteString("/")
	if sessionID != "" {
		b.WriteString(sessionID)
		b.WriteString("/")
	}
	b.WriteString(timestamp)
	for _, arg := range args {
		b.WriteString("/")
		b.WriteString(arg)
	}
	return b.String()
}
