// Package notify carries document-change notifications between a language
// service and astviz over WebSocket.
//
// A language service publishes a [DocumentChange] whenever a document is
// re-parsed. The change carries the full serialized AST, so every message
// rebuilds the tree from scratch; there are no incremental updates.
//
// Two roles are provided:
//
//   - [Subscriber] dials a language service and hands each change to a
//     callback, reconnecting with backoff when the connection drops.
//   - [Hub] is the server side: it upgrades HTTP requests and answers each
//     inbound change with a projection [Frame].
package notify

import (
	"context"
	"encoding/json"
)

// Position is a zero-based line/character offset in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a span of a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Severity levels, as used by the Language Server Protocol.
const (
	SeverityError       = 1
	SeverityWarning     = 2
	SeverityInformation = 3
	SeverityHint        = 4
)

// Diagnostic is a problem the language service found in the document.
type Diagnostic struct {
	Code     json.RawMessage `json:"code,omitempty"` // string or number
	Message  string          `json:"message"`
	Range    Range           `json:"range"`
	Severity int             `json:"severity,omitempty"`
	Source   string          `json:"source,omitempty"`
}

// DocumentChange is published after a document was parsed.
type DocumentChange struct {
	URI string `json:"uri"`
	// Content is the serialized AST of the document.
	Content     string       `json:"content"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// HasErrors reports whether any diagnostic has error severity.
func (c DocumentChange) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Frame types sent by the Hub.
const (
	FrameSubscribed = "subscribed"
	FrameProjection = "projection"
	FrameError      = "error"
)

// Frame is a message from the Hub to a client.
type Frame struct {
	Type        string          `json:"type"`
	SessionID   string          `json:"sessionId,omitempty"`
	URI         string          `json:"uri,omitempty"`
	Graph       json.RawMessage `json:"graph,omitempty"`
	Treemap     json.RawMessage `json:"treemap,omitempty"`
	Diagnostics []Diagnostic    `json:"diagnostics,omitempty"`
	Code        string          `json:"code,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// Projection holds the projections a Hub sends back for a change.
type Projection struct {
	Graph   json.RawMessage
	Treemap json.RawMessage
}

// Projector turns a change into its projections.
type Projector interface {
	Project(ctx context.Context, change DocumentChange) (Projection, error)
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(ctx context.Context, change DocumentChange) (Projection, error)

// Project implements Projector.
func (f ProjectorFunc) Project(ctx context.Context, change DocumentChange) (Projection, error) {
	return f(ctx, change)
}
