package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/schemapath/schema"
)

// Sentinel error kinds, one per failure mode. Test and caller code
// distinguishes them with errors.Is against the wrapping MatchError.
var (
	// ErrPathNotFound: every decision point exhausted; no schema
	// traversal admits the document prefix.
	ErrPathNotFound = errors.New("schemapath: path not found")

	// ErrMismatchedEnd: endElement for a qname other than the element
	// stack's top, outside a wildcard subtree.
	ErrMismatchedEnd = errors.New("schemapath: mismatched end element")

	// ErrUnclosedElements: endDocument called with a non-empty element
	// stack.
	ErrUnclosedElements = errors.New("schemapath: unclosed elements at end of document")

	// ErrUnexpectedCharacterData: non-whitespace text inside an element
	// whose type admits no content.
	ErrUnexpectedCharacterData = errors.New("schemapath: unexpected character data")

	// ErrMissingContent: a simple-typed, non-nillable element closed
	// without ever receiving content.
	ErrMissingContent = errors.New("schemapath: missing content")

	// ErrContentInvalid: the external validator rejected an attribute or
	// character-content value.
	ErrContentInvalid = errors.New("schemapath: content invalid")

	// ErrSchemaInvariant: an internal consistency check failed: an event
	// arrived after EndDocument, no owning element was found for character
	// data, an end tag's walk-up reached the root without finding the
	// element being closed, or the WithMaxBacktrackReplays limit was
	// exceeded. Search and fulfilment do not raise it: a group with no
	// admissible children or an iteration count above max_occurs only
	// removes that branch from the candidates. Indicates a bug or an
	// inconsistent precompiled schema.
	ErrSchemaInvariant = errors.New("schemapath: schema invariant violated")
)

// EventKind distinguishes the three traversed-event log entry kinds
// rendered by MatchError.
type EventKind int

const (
	EventStart EventKind = iota
	EventContent
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "START"
	case EventContent:
		return "CONTENT"
	case EventEnd:
		return "END"
	default:
		return "?"
	}
}

// TraversedEvent is one entry of the matcher's own event log, replayed
// during backtracking and rendered into
// MatchError's diagnostic output. QName is kept structured (rather than
// pre-rendered) because the backtrack loop pushes it back onto the
// element/wildcard stacks verbatim when it re-commits a diverging event.
type TraversedEvent struct {
	QName schema.QName
	Kind  EventKind
}

func renderQName(q schema.QName) string {
	if q.URI == "" {
		return q.Local
	}
	return q.URI + "|" + q.Local
}

// MatchError wraps one of the sentinel errors above with the traversed
// event log at the point of failure, rendered as
// "[qname:kind | qname:kind | ...]".
type MatchError struct {
	Kind error
	Log  []TraversedEvent
	// Err is the underlying validator error for ErrContentInvalid; nil
	// for every other kind.
	Err error
}

func (e *MatchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	b.WriteString(": ")
	b.WriteString(renderLog(e.Log))
	return b.String()
}

// Unwrap makes errors.Is(err, ErrPathNotFound) (etc.) work against a
// MatchError.
func (e *MatchError) Unwrap() error { return e.Kind }

func renderLog(log []TraversedEvent) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, ev := range log {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%s:%s", renderQName(ev.QName), ev.Kind)
	}
	b.WriteByte(']')
	return b.String()
}
