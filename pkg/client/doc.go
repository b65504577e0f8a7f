// Package client provides a Go client for the Hi-Rez Smite API.
//
// This package builds on the wire layer (pkg/api) and handles the parts of
// the API that are easy to get wrong:
//   - Per-call MD5 signatures tied to the request timestamp
//   - Session creation and transparent renewal every 15 minutes
//   - A single createsession round trip shared by concurrent callers
//   - Telling JSON results apart from HTML error pages
//   - Type-safe error handling
//
// # Basic Usage
//
// Create a client and call an endpoint:
//
//	c, err := client.New(os.Getenv("SMITE_DEV_ID"), os.Getenv("SMITE_AUTH_KEY"),
//	    client.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	motds, err := c.GetMOTDs(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range motds {
//	    fmt.Printf("%s at %s\n", m.Title, m.StartDateTime)
//	}
//
// # Calling Other Methods
//
// Methods without a dedicated wrapper go through Invoke, which signs the
// call, attaches a session when asked to and decodes the response:
//
//	items, err := client.Invoke[[]map[string]any](ctx, c, "getitems", true, "1")
//
// # Error Handling
//
// The client provides custom error types with helper functions:
//
//	ids, err := c.GetMatchIDsByQueue(ctx, client.QueueConquest, "01-02-2024", nil)
//	if err != nil {
//	    switch {
//	    case client.IsValidationError(err):
//	        // Bad argument, nothing was sent
//	    case client.IsRejection(err):
//	        // createsession refused the credentials
//	    case client.IsHTMLError(err):
//	        // The API answered with an error page
//	    case client.IsParseError(err):
//	        // The body did not match the expected shape
//	    default:
//	        // Transport failure or cancellation
//	    }
//	}
//
// Many logical failures (an unknown player, an expired session on the
// server side) arrive as ordinary JSON with a ret_msg field. The client
// decodes them like any other response; inspect RetMsg when it matters.
package client
