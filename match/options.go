package match

import (
	"github.com/dshills/schemapath/emit"
	"github.com/dshills/schemapath/metrics"
)

// Option configures a Matcher.
type Option func(*config) error

type config struct {
	maxDepth            int
	maxBacktrackReplays int
	wildcardNSFallback  bool
	emitter             emit.Emitter
	metrics             *metrics.Collector
	docID               string
}

func defaultConfig() config {
	return config{
		maxDepth:           256,
		wildcardNSFallback: true,
		emitter:            emit.NewNullEmitter(),
	}
}

// WithMaxDepth overrides the depth guard on find()'s recursion. Default
// 256.
func WithMaxDepth(n int) Option {
	return func(c *config) error {
		c.maxDepth = n
		return nil
	}
}

// WithEmitter wires an observability sink for decision/path/backtrack
// events. Default emit.NewNullEmitter().
func WithEmitter(e emit.Emitter) Option {
	return func(c *config) error {
		c.emitter = e
		return nil
	}
}

// WithMetrics wires a Prometheus collector for path-pool, decision-stack,
// and backtrack gauges/counters. Default nil (disabled).
func WithMetrics(m *metrics.Collector) Option {
	return func(c *config) error {
		c.metrics = m
		return nil
	}
}

// WithDocID sets the document identifier attached to emitted events and
// metric labels. Default "".
func WithDocID(id string) Option {
	return func(c *config) error {
		c.docID = id
		return nil
	}
}

// WithWildcardTargetNamespaceOverride controls wildcard namespace
// resolution: when true (the default), a wildcard's ##targetNamespace
// rule falls back
// to the currently-open element's namespace when the wildcard's own
// target namespace was not recorded by the schema walker. When false, the
// fallback is disabled and an unresolved ##targetNamespace wildcard simply
// never matches.
func WithWildcardTargetNamespaceOverride(enabled bool) Option {
	return func(c *config) error {
		c.wildcardNSFallback = enabled
		return nil
	}
}

// WithMaxBacktrackReplays bounds the number of replay passes the backtrack
// loop will perform before giving up with ErrSchemaInvariant. Default 0
// (unbounded): the loop always terminates because the depth guard bounds
// find() and the event log is finite, so this exists only as a
// runaway-loop safety valve, never expected to trigger against a
// conformant schema.
func WithMaxBacktrackReplays(n int) Option {
	return func(c *config) error {
		c.maxBacktrackReplays = n
		return nil
	}
}
