// Package match implements the path finder controller: the SAX-event-driven
// state machine that calls search.Find at every startElement, commits or
// backtracks through decision.Stack, and enforces the structural rules
// (mismatched ends, missing/unexpected content, unclosed elements).
package match

import (
	"strings"

	"github.com/dshills/schemapath/decision"
	"github.com/dshills/schemapath/docmodel"
	"github.com/dshills/schemapath/emit"
	"github.com/dshills/schemapath/fulfil"
	"github.com/dshills/schemapath/nsctx"
	"github.com/dshills/schemapath/path"
	"github.com/dshills/schemapath/schema"
	"github.com/dshills/schemapath/search"
	"github.com/dshills/schemapath/validate"
)

// Matcher is the stateful Path Finder controller. One Matcher matches one
// document against one precompiled schema; it is not safe for concurrent
// use.
type Matcher struct {
	cfg       config
	validator validate.Validator
	ns        *nsctx.Registry

	pool *path.Pool
	mgr  *path.Manager

	containerDoc *docmodel.Node
	containerPN  *path.Node

	current *path.Node

	elementStack  elementStack
	wildcardStack elementStack

	log       []TraversedEvent
	decisions decision.Stack

	replays int
	done    bool
}

// New builds a Matcher for a document whose root content particle is root
// (an ELEMENT schema.Node). It wraps root in a synthetic SEQUENCE container
// of its own, the root bootstrap anchor, so the
// very first startElement can be resolved by the same search.Find used for
// every later event, rather than by special-casing an empty current.
func New(root *schema.Node, validator validate.Validator, ns *nsctx.Registry, opts ...Option) (*Matcher, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if validator == nil {
		validator = validate.Lenient{}
	}
	if ns == nil {
		ns = nsctx.New()
	}

	containerSSN := schema.NewCompositor(schema.Sequence, 1, 1, root)
	containerDoc := docmodel.NewRoot(containerSSN)

	pool := path.NewPool()
	containerPN := pool.Alloc()
	containerPN.Schema = containerSSN
	containerPN.Direction = path.Child
	containerPN.IndexOfNextState = 0
	containerPN.MaxOccurs = containerSSN.MaxOccurs
	containerPN.Doc = containerDoc
	// The container occurs exactly once; counting it as already entered
	// closes off any sibling re-entry that would admit a second document
	// root.
	containerPN.Iteration = 1
	containerDoc.Iteration = 1

	return &Matcher{
		cfg:          cfg,
		validator:    validator,
		ns:           ns,
		pool:         pool,
		mgr:          &path.Manager{Pool: pool},
		containerDoc: containerDoc,
		containerPN:  containerPN,
	}, nil
}

// StartElement processes a startElement event, entering the backtrack
// loop when the schema admits no candidate for qname at the current
// position.
func (m *Matcher) StartElement(qname schema.QName, attrs validate.Attrs) error {
	if m.done {
		return &MatchError{Kind: ErrSchemaInvariant, Log: m.log}
	}
	ok, err := m.advance(qname, attrs, false, len(m.log))
	if err != nil {
		return err
	}
	if ok {
		m.recordLiveMetrics()
		return nil
	}
	if err := m.backtrackLoop(qname, attrs); err != nil {
		return err
	}
	m.recordLiveMetrics()
	return nil
}

// Characters processes a characters event: the owning-element lookup,
// empty-content and unexpected-character-data checks, delegation to the
// external content validator, and CONTENT PN insertion.
func (m *Matcher) Characters(text string) error {
	if m.done {
		return &MatchError{Kind: ErrSchemaInvariant, Log: m.log}
	}
	if len(m.wildcardStack) > 0 {
		// Wildcard content is opaque.
		return nil
	}
	if m.current == nil || len(m.elementStack) == 0 {
		// Text outside the root element: ignorable whitespace or junk.
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return &MatchError{Kind: ErrUnexpectedCharacterData, Log: m.log}
	}
	owning := owningElementDoc(m.current.Doc)
	if owning == nil {
		return &MatchError{Kind: ErrSchemaInvariant, Log: m.log}
	}
	ssn := owning.Schema
	expectsContent := ssn.Type.Simple || ssn.Type.Mixed
	trimmed := strings.TrimSpace(text)

	switch {
	case !expectsContent && trimmed == "":
		return nil
	case !expectsContent && trimmed != "":
		return &MatchError{Kind: ErrUnexpectedCharacterData, Log: m.log}
	case expectsContent && trimmed == "" && !ssn.Nillable && !ssn.Type.Mixed && !ssn.Type.HasDefault && !ssn.Type.HasFixed:
		return &MatchError{Kind: ErrMissingContent, Log: m.log}
	}

	if err := m.validator.ValidateContent(ssn, text, m.ns); err != nil {
		return &MatchError{Kind: ErrContentInvalid, Err: err, Log: m.log}
	}

	content := m.pool.Alloc()
	content.Schema = ssn
	content.Direction = path.Content
	content.IndexOfNextState = -1
	content.MaxOccurs = m.current.MaxOccurs
	content.Iteration = m.current.Iteration
	m.current.Next = content
	content.Prev = m.current
	m.mgr.FollowPath(owning, content)
	m.current = content

	m.log = append(m.log, TraversedEvent{QName: ssn.QName, Kind: EventContent})
	m.emitEvent("content_matched", ssn.QName, nil)
	m.recordLiveMetrics()
	return nil
}

// EndElement processes an endElement event: the wildcard check, the
// mismatched-end check, walk-up to the matching ELEMENT, the
// missing-content check for simple-typed elements, stack pops, and the
// implicit upward walk.
func (m *Matcher) EndElement(qname schema.QName) error {
	if m.done {
		return &MatchError{Kind: ErrSchemaInvariant, Log: m.log}
	}
	if m.current == nil {
		return &MatchError{Kind: ErrMismatchedEnd, Log: m.log}
	}
	isAny := m.current.Schema.Kind == schema.Any && len(m.wildcardStack) > 0

	if !isAny {
		top, ok := m.elementStack.top()
		if !ok || top != qname {
			return &MatchError{Kind: ErrMismatchedEnd, Log: m.log}
		}
		if err := m.walkUpToElement(qname); err != nil {
			return err
		}
		ssn := m.current.Schema
		if ssn.Type.Simple && !m.current.Doc.ReceivedContent && !ssn.Nillable && !ssn.Type.HasDefault && !ssn.Type.HasFixed {
			return &MatchError{Kind: ErrMissingContent, Log: m.log}
		}
	}

	m.log = append(m.log, TraversedEvent{QName: qname, Kind: EventEnd})
	m.elementStack = m.elementStack[:len(m.elementStack)-1]
	if isAny {
		m.wildcardStack = m.wildcardStack[:len(m.wildcardStack)-1]
	}
	if len(m.wildcardStack) == 0 {
		m.walkUpTree()
	}

	m.emitEvent("element_matched", qname, nil)
	m.recordLiveMetrics()
	return nil
}

// EndDocument processes the endDocument event: the UNCLOSED-ELEMENTS check,
// then clears the pool and decision stack and returns the root PN for
// downstream consumers.
func (m *Matcher) EndDocument() (*path.Node, error) {
	if m.done {
		return nil, &MatchError{Kind: ErrSchemaInvariant, Log: m.log}
	}
	if len(m.elementStack) > 0 {
		if m.cfg.metrics != nil {
			m.cfg.metrics.IncDocumentMatched("failed")
		}
		return nil, &MatchError{Kind: ErrUnclosedElements, Log: m.log}
	}
	m.done = true
	root := m.containerPN
	m.decisions.Clear()
	if m.cfg.metrics != nil {
		m.cfg.metrics.IncDocumentMatched("matched")
		m.cfg.metrics.SetLivePathNodes(m.cfg.docID, m.pool.Live())
		m.cfg.metrics.SetDecisionStackDepth(m.cfg.docID, m.decisions.Len())
	}
	return root, nil
}

// advance resolves one already-known qname against the current position:
// the wildcard shortcut, search.Find, candidate ordering, decision-point
// creation, and the commit itself. isReplay suppresses attribute
// validation and event-log appends, since a replayed START event is
// already recorded in the log and its original attrs are not retained
// there (log entries are (qname, kind) pairs only). eventIndex is the
// log position of the event being resolved (the index the START will be
// appended at for a live event, or the replayed entry's own index) and
// is what any decision point created here records as its divergence
// point. It reports ok=false, nil error when the schema admits no
// candidate, the signal for the caller to enter or continue the
// backtrack loop.
func (m *Matcher) advance(qname schema.QName, attrs validate.Attrs, isReplay bool, eventIndex int) (bool, error) {
	if m.current != nil && m.current.Schema.Kind == schema.Any && len(m.wildcardStack) > 0 {
		m.elementStack = append(m.elementStack, qname)
		m.wildcardStack = append(m.wildcardStack, qname)
		if !isReplay {
			m.log = append(m.log, TraversedEvent{QName: qname, Kind: EventStart})
		}
		return true, nil
	}
	if m.current == nil {
		m.current = m.containerPN
	}

	target := search.Target{
		QName:                   qname,
		CurrentElementNS:        m.currentElementNS(),
		AllowWildcardNSFallback: m.cfg.wildcardNSFallback,
		CurrentElementClosed:    m.currentElementClosed(),
		MaxDepth:                m.cfg.maxDepth,
		OnDepthExceeded:         m.onDepthExceeded,
	}
	candidates := search.Find(m.pool, m.current, target)
	if len(candidates) == 0 {
		return false, nil
	}
	search.Order(candidates)

	branch := m.current
	var chosen path.Segment
	if len(candidates) > 1 {
		dp := decision.NewPoint(branch, candidates, eventIndex, renderedStack(m.elementStack), renderedStack(m.wildcardStack))
		m.decisions.Push(dp)
		m.emitEvent("decision_pushed", qname, map[string]interface{}{"candidates": len(candidates)})
		chosen = candidates[0]
	} else {
		chosen = candidates[0]
	}

	m.commitSegment(branch, chosen)
	m.current = chosen.End

	isAny := m.current.Schema.Kind == schema.Any
	if !isReplay {
		if err := m.validator.ValidateAttributes(m.current.Schema, attrs, m.ns); err != nil {
			return false, &MatchError{Kind: ErrContentInvalid, Err: err, Log: m.log}
		}
		m.log = append(m.log, TraversedEvent{QName: qname, Kind: EventStart})
	}
	m.elementStack = append(m.elementStack, qname)
	if isAny {
		m.wildcardStack = append(m.wildcardStack, qname)
	}
	m.emitEvent("path_followed", qname, nil)
	return true, nil
}

// commitSegment promotes the speculative chain search.Find returned into
// the committed document tree. A segment's Start is a copy of branch
// itself, its transition already committed, so the splice drops it
// and FollowPath begins at AfterStart.
func (m *Matcher) commitSegment(branch *path.Node, chosen path.Segment) {
	next := chosen.AfterStart
	if next == nil {
		next = chosen.Start
	}
	branch.Next = next
	next.Prev = branch
	if next != chosen.Start {
		m.pool.Recycle(chosen.Start)
	}
	m.mgr.FollowPath(branch.Doc, next)
}

// backtrackLoop runs the backtrack/replay procedure after a
// startElement finds no candidate for (qname, attrs). It pops decision
// points, retries their remaining candidates, replays every event recorded
// since the divergence, and finally re-attempts the originally-failing
// event. It returns ErrPathNotFound once every decision point is
// exhausted.
func (m *Matcher) backtrackLoop(qname schema.QName, attrs validate.Attrs) error {
	for {
		if m.decisions.Empty() {
			return &MatchError{Kind: ErrPathNotFound, Log: m.log}
		}
		dp := m.decisions.Top()
		candidate, ok := dp.Next()
		if !ok {
			m.decisions.Pop()
			m.emitEvent("decision_popped", schema.QName{}, nil)
			continue
		}
		if m.cfg.maxBacktrackReplays > 0 && m.replays >= m.cfg.maxBacktrackReplays {
			return &MatchError{Kind: ErrSchemaInvariant, Log: m.log}
		}
		m.replays++
		if m.cfg.metrics != nil {
			m.cfg.metrics.IncBacktrackReplay(m.cfg.docID)
		}

		m.mgr.UnfollowPath(dp.Branch)
		m.emitEvent("path_unfollowed", m.log[dp.EventIndex].QName, nil)
		m.elementStack = parseRenderedStack(dp.ElementStack)
		m.wildcardStack = parseRenderedStack(dp.WildcardStack)

		m.commitSegment(dp.Branch, candidate)
		m.current = candidate.End

		diverged := m.log[dp.EventIndex].QName
		m.elementStack = append(m.elementStack, diverged)
		if m.current.Schema.Kind == schema.Any {
			m.wildcardStack = append(m.wildcardStack, diverged)
		}
		m.emitEvent("backtrack_replay", diverged, map[string]interface{}{"event_index": dp.EventIndex})

		replayOK := true
		for i := dp.EventIndex + 1; i < len(m.log); i++ {
			ev := m.log[i]
			switch ev.Kind {
			case EventStart:
				ok2, err2 := m.advance(ev.QName, nil, true, i)
				if err2 != nil {
					return err2
				}
				if !ok2 {
					replayOK = false
				}
			case EventContent:
				m.replayContent(ev.QName)
			case EventEnd:
				if err2 := m.replayEnd(ev.QName); err2 != nil {
					return err2
				}
			}
			if !replayOK {
				break
			}
		}
		if !replayOK {
			continue
		}

		ok3, err3 := m.advance(qname, attrs, false, len(m.log))
		if err3 != nil {
			return err3
		}
		if ok3 {
			return nil
		}
	}
}

// replayContent re-applies a previously logged CONTENT event's structural
// effect without re-validating text (not retained in the log) or
// re-appending to it.
func (m *Matcher) replayContent(qname schema.QName) {
	if len(m.wildcardStack) > 0 {
		return
	}
	owning := owningElementDoc(m.current.Doc)
	if owning == nil {
		return
	}
	content := m.pool.Alloc()
	content.Schema = owning.Schema
	content.Direction = path.Content
	content.IndexOfNextState = -1
	content.MaxOccurs = m.current.MaxOccurs
	content.Iteration = m.current.Iteration
	m.current.Next = content
	content.Prev = m.current
	m.mgr.FollowPath(owning, content)
	m.current = content
}

// replayEnd re-applies a previously logged END event's structural effect
// without re-appending to the event log.
func (m *Matcher) replayEnd(qname schema.QName) error {
	isAny := m.current.Schema.Kind == schema.Any && len(m.wildcardStack) > 0
	if !isAny {
		if err := m.walkUpToElement(qname); err != nil {
			return err
		}
	}
	m.elementStack = m.elementStack[:len(m.elementStack)-1]
	if isAny {
		m.wildcardStack = m.wildcardStack[:len(m.wildcardStack)-1]
	}
	if len(m.wildcardStack) == 0 {
		m.walkUpTree()
	}
	return nil
}

// walkUpToElement force-ascends current, via repeated PARENT path nodes,
// until it lands on the ELEMENT PN for qname: the explicit closing-tag
// ascent, distinct from walkUpTree's completeness-gated one.
func (m *Matcher) walkUpToElement(qname schema.QName) error {
	for !(m.current.Schema.Kind == schema.Element && m.current.Schema.QName == qname) {
		if m.current.Doc.Parent == nil {
			return &MatchError{Kind: ErrSchemaInvariant, Log: m.log}
		}
		m.ascendParent()
	}
	return nil
}

// walkUpTree ascends current as long as its DN has reached max_occurs and
// fulfilment reports it COMPLETE, stopping upon reaching an ELEMENT (the
// enclosing element, still open) or the root. It may also stop mid-way,
// on a compositor still awaiting a later sibling.
func (m *Matcher) walkUpTree() {
	for {
		doc := m.current.Doc
		if doc.Parent == nil {
			return
		}
		if !doc.AtMax() {
			return
		}
		status, _ := fulfil.Of(doc, false)
		if status != fulfil.Complete {
			return
		}
		m.ascendParent()
		if m.current.Schema.Kind == schema.Element {
			return
		}
	}
}

// ascendParent materialises and commits a single PARENT path node, moving
// current from a child DN to its parent.
func (m *Matcher) ascendParent() {
	parentDoc := m.current.Doc.Parent
	p := m.pool.Alloc()
	p.Schema = parentDoc.Schema
	p.Direction = path.Parent
	p.IndexOfNextState = -1
	p.MaxOccurs = parentDoc.MaxOccurs
	p.Iteration = parentDoc.Iteration
	m.current.Next = p
	p.Prev = m.current
	m.mgr.FollowPath(m.current.Doc, p)
	m.current = p
}

// currentElementNS reports the namespace of the element currently open on
// the element stack (the parent of whatever qname is about to be
// searched for), used as the wildcard's fallback target namespace.
func (m *Matcher) currentElementNS() string {
	top, ok := m.elementStack.top()
	if !ok {
		return ""
	}
	return top.URI
}

// currentElementClosed reports whether current sits at an ELEMENT PN whose
// end tag has already been processed: the walk-up after an endElement
// leaves current at the closed element when it may still repeat. The
// closed element's own DN then adds one ELEMENT level beyond the elements
// actually open on the stack.
func (m *Matcher) currentElementClosed() bool {
	if m.current == nil || m.current.Schema.Kind != schema.Element {
		return false
	}
	depth := 0
	for d := m.current.Doc; d != nil; d = d.Parent {
		if d.Schema.Kind == schema.Element {
			depth++
		}
	}
	return depth > len(m.elementStack)
}

// owningElementDoc walks up from doc to the nearest ELEMENT-kind DN, the
// element that characters() text belongs to.
func owningElementDoc(doc *docmodel.Node) *docmodel.Node {
	for d := doc; d != nil; d = d.Parent {
		if d.Schema.Kind == schema.Element {
			return d
		}
	}
	return nil
}

func (m *Matcher) emitEvent(msg string, qname schema.QName, meta map[string]interface{}) {
	m.cfg.emitter.Emit(emit.Event{
		DocID:      m.cfg.docID,
		EventIndex: len(m.log),
		QName:      renderQName(qname),
		Msg:        msg,
		Meta:       meta,
	})
}

func (m *Matcher) onDepthExceeded() {
	if m.cfg.metrics != nil {
		m.cfg.metrics.IncDepthExceeded(m.cfg.docID)
	}
	m.emitEvent("depth_exceeded", schema.QName{}, nil)
}

func (m *Matcher) recordLiveMetrics() {
	if m.cfg.metrics == nil {
		return
	}
	m.cfg.metrics.SetLivePathNodes(m.cfg.docID, m.pool.Live())
	m.cfg.metrics.SetDecisionStackDepth(m.cfg.docID, m.decisions.Len())
}
