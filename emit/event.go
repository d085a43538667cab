package emit

// Event is one observability event emitted during matching: a decision
// pushed or popped, a path followed or unfollowed, an element matched, a
// backtrack replay, or a depth-exceeded branch.
type Event struct {
	// DocID identifies the document being matched, for correlating events
	// across a multi-document run.
	DocID string

	// EventIndex is the position in the matcher's own event log, zero
	// for document-level events (start/end).
	EventIndex int

	// QName is the element this event concerns, empty for document-level
	// events.
	QName string

	// Msg names the event: "decision_pushed", "decision_popped",
	// "path_followed", "path_unfollowed", "element_matched",
	// "content_matched", "backtrack_replay", "depth_exceeded".
	Msg string

	// Meta carries event-specific structured data, e.g. "candidates" for
	// decision_pushed, "depth" for depth_exceeded.
	Meta map[string]interface{}
}
