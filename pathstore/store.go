// Package pathstore persists the canonical path produced by a completed
// match.Matcher, the rendered (schema-id, direction, iteration) sequence,
// keyed by a caller-supplied document ID. This is strictly downstream of
// the matcher's output: the core defines no persistent on-disk format and
// never reads a stored path back; pathstore is an additive, opt-in
// consumer.
package pathstore

import (
	"context"
	"errors"

	"github.com/dshills/schemapath/path"
	"github.com/dshills/schemapath/schema"
)

// ErrNotFound is returned when a requested document ID has no stored
// path.
var ErrNotFound = errors.New("pathstore: not found")

// Step is one rendered entry of a canonical path: the schema particle it
// steps through, the direction taken to reach it, and the occurrence
// count at that step. SchemaID is caller-assigned (the precompiled
// schema graph is built outside this module) and must
// uniquely identify a schema.Node within one schema for Step to be
// meaningful across a store/load round trip.
type Step struct {
	SchemaID  string
	Direction path.Direction
	Iteration int
}

// Store persists and retrieves canonical paths by document ID.
//
// Implementations: Memory (tests), SQLite (single-file, zero-setup
// deployments), MySQL (production deployments needing a shared store).
type Store interface {
	// SavePath persists steps as the canonical path for docID, replacing
	// any path previously stored under the same ID.
	SavePath(ctx context.Context, docID string, steps []Step) error

	// LoadPath retrieves the canonical path previously stored for docID.
	// Returns ErrNotFound if docID was never saved.
	LoadPath(ctx context.Context, docID string) ([]Step, error)

	// Close releases any resources held by the store.
	Close() error
}

// directionOf converts a stored direction integer back into path.Direction,
// used by the SQL-backed stores when scanning a row.
func directionOf(n int) path.Direction {
	switch n {
	case int(path.Sibling):
		return path.Sibling
	case int(path.Parent):
		return path.Parent
	case int(path.Content):
		return path.Content
	default:
		return path.Child
	}
}

// Render walks root (the PN chain returned by match.Matcher.EndDocument)
// into a Step slice suitable for Store.SavePath. idOf assigns a stable
// SchemaID to each schema.Node; callers typically close over the schema
// walker's own node identifiers.
func Render(root *path.Node, idOf func(*schema.Node) string) []Step {
	var steps []Step
	for pn := root; pn != nil; pn = pn.Next {
		steps = append(steps, Step{
			SchemaID:  idOf(pn.Schema),
			Direction: pn.Direction,
			Iteration: pn.Iteration,
		})
	}
	return steps
}
