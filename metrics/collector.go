// Package metrics provides Prometheus instrumentation for the path
// finder.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exposes Prometheus metrics for matcher internals:
//
//  1. live_path_nodes (gauge): PNs currently issued by the path pool and
//     not yet recycled. Labels: doc_id.
//  2. decision_stack_depth (gauge): current decision-point stack depth.
//     Labels: doc_id.
//  3. backtrack_replays_total (counter): replay attempts performed by the
//     backtrack loop. Labels: doc_id.
//  4. documents_matched_total (counter): documents that reached
//     endDocument, by result. Labels: outcome ("matched", "failed").
//  5. depth_exceeded_total (counter): find() branches abandoned for
//     hitting MAX_DEPTH. Labels: doc_id.
type Collector struct {
	livePathNodes      *prometheus.GaugeVec
	decisionStackDepth *prometheus.GaugeVec
	backtrackReplays   *prometheus.CounterVec
	documentsMatched   *prometheus.CounterVec
	depthExceeded      *prometheus.CounterVec

	mu      sync.RWMutex
	enabled bool
}

// NewCollector registers every matcher metric, namespaced "schemapath",
// against registry (use prometheus.DefaultRegisterer for the global
// registry, or a fresh *prometheus.Registry for test isolation).
func NewCollector(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Collector{
		enabled: true,
		livePathNodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "schemapath",
			Name:      "live_path_nodes",
			Help:      "Path nodes currently issued by the path pool and not yet recycled",
		}, []string{"doc_id"}),
		decisionStackDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "schemapath",
			Name:      "decision_stack_depth",
			Help:      "Current depth of the decision-point stack",
		}, []string{"doc_id"}),
		backtrackReplays: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schemapath",
			Name:      "backtrack_replays_total",
			Help:      "Replay attempts performed by the backtrack loop",
		}, []string{"doc_id"}),
		documentsMatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schemapath",
			Name:      "documents_matched_total",
			Help:      "Documents processed to completion, by outcome",
		}, []string{"outcome"}),
		depthExceeded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schemapath",
			Name:      "depth_exceeded_total",
			Help:      "find() branches abandoned for exceeding MAX_DEPTH",
		}, []string{"doc_id"}),
	}
}

// SetLivePathNodes records the path pool's current live count.
func (c *Collector) SetLivePathNodes(docID string, n int) {
	if !c.isEnabled() {
		return
	}
	c.livePathNodes.WithLabelValues(docID).Set(float64(n))
}

// SetDecisionStackDepth records the decision stack's current depth.
func (c *Collector) SetDecisionStackDepth(docID string, n int) {
	if !c.isEnabled() {
		return
	}
	c.decisionStackDepth.WithLabelValues(docID).Set(float64(n))
}

// IncBacktrackReplay increments the replay counter for docID.
func (c *Collector) IncBacktrackReplay(docID string) {
	if !c.isEnabled() {
		return
	}
	c.backtrackReplays.WithLabelValues(docID).Inc()
}

// IncDocumentMatched increments the document-outcome counter.
func (c *Collector) IncDocumentMatched(outcome string) {
	if !c.isEnabled() {
		return
	}
	c.documentsMatched.WithLabelValues(outcome).Inc()
}

// IncDepthExceeded increments the depth-exceeded counter for docID.
func (c *Collector) IncDepthExceeded(docID string) {
	if !c.isEnabled() {
		return
	}
	c.depthExceeded.WithLabelValues(docID).Inc()
}

func (c *Collector) isEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Disable turns off recording, useful for tests that don't want to pay
// for metric bookkeeping.
func (c *Collector) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
}

// Enable re-enables recording after Disable.
func (c *Collector) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
}
