// Package emit provides pluggable observability for the path finder:
// decision pushes and pops, path follows and unfollows, backtrack
// replays, and depth-exceeded branches.
package emit

import "context"

// Emitter receives observability events from a Matcher. Implementations
// should not block event processing and should not panic.
type Emitter interface {
	Emit(event Event)
	EmitBatch(ctx context.Context, events []Event) error
	Flush(ctx context.Context) error
}
