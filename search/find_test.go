package search

import (
	"testing"

	"github.com/dshills/schemapath/docmodel"
	"github.com/dshills/schemapath/path"
	"github.com/dshills/schemapath/schema"
)

// demoSchema builds root { sequence { choice{A,B}+, any{##other}? } }.
func demoSchema() (root, seq, choice, a, b, any *schema.Node) {
	a = schema.NewElement(schema.QName{Local: "A"}, 1, 1, schema.TypeInfo{Simple: true}, false, nil)
	b = schema.NewElement(schema.QName{Local: "B"}, 1, 1, schema.TypeInfo{Simple: true}, false, nil)
	choice = schema.NewCompositor(schema.Choice, 1, schema.Unbounded, a, b)
	any = schema.NewAny(0, 1, schema.WildcardSpec{Mode: schema.OtherNamespace, TargetNamespace: "urn:home"})
	seq = schema.NewCompositor(schema.Sequence, 1, 1, choice, any)
	root = schema.NewElement(schema.QName{Local: "root"}, 1, 1, schema.TypeInfo{}, false, seq)
	return
}

// rootPN builds the synthetic CHILD PN that bootstraps the root element,
// mirroring match.New's container wrapping.
func rootPN(pool *path.Pool, root *schema.Node) *path.Node {
	container := schema.NewCompositor(schema.Sequence, 1, 1, root)
	containerDoc := docmodel.NewRoot(container)
	pn := pool.Alloc()
	pn.Schema = container
	pn.Direction = path.Child
	pn.IndexOfNextState = 0
	pn.MaxOccurs = container.MaxOccurs
	pn.Doc = containerDoc
	return pn
}

func TestFindEntryShimDescendsIntoContentModel(t *testing.T) {
	pool := path.NewPool()
	root, _, _, a, _, _ := demoSchema()

	// The root element is current (just opened); Find must perform the
	// entry shim (descend into root's own content model) before
	// searching for A.
	containerPN := rootPN(pool, root)
	rootDoc := containerPN.Doc.EnsureChild(0, root)
	elementPN := &path.Node{Schema: root, Doc: rootDoc, Direction: path.Child, Iteration: 1, MaxOccurs: root.MaxOccurs}

	candidates := Find(pool, elementPN, Target{QName: schema.QName{Local: "A"}})
	if len(candidates) == 0 {
		t.Fatalf("expected at least one candidate for <A/> inside <root>, got none")
	}
	for _, c := range candidates {
		if c.End.Schema != a {
			t.Errorf("expected candidate End to reference schema node a, got %v", c.End.Schema)
		}
		// Find clones current rather than handing back the caller's own
		// PN (current is never consumed), so Start is a distinct node
		// carrying the same schema; like every pool clone, it has no Doc
		// bound.
		if c.Start == elementPN {
			t.Errorf("expected Find to prepend a clone of elementPN, not the original pointer")
		}
		if c.Start.Schema != root || c.Start.Doc != nil {
			t.Errorf("expected the prepended clone to carry root's schema and no Doc, got %+v", c.Start)
		}
	}
}

func TestFindElementBeforeWildcardOrdering(t *testing.T) {
	pool := path.NewPool()
	root, _, _, _, _, _ := demoSchema()
	containerPN := rootPN(pool, root)
	rootDoc := containerPN.Doc.EnsureChild(0, root)
	elementPN := &path.Node{Schema: root, Doc: rootDoc, Direction: path.Child, Iteration: 1, MaxOccurs: root.MaxOccurs}

	// <A/> can only be reached through the choice (an ELEMENT leaf);
	// there is no wildcard route to "A" because the sequence's wildcard
	// position is not admissible until the mandatory choice has occurred
	// once, so a single candidate is expected.
	candidates := Find(pool, elementPN, Target{QName: schema.QName{Local: "A"}})
	Order(candidates)
	if len(candidates) != 1 {
		t.Fatalf("expected exactly one candidate for A, got %d", len(candidates))
	}
	if candidates[0].End.Schema.Kind != schema.Element {
		t.Errorf("expected the sole candidate to end in an ELEMENT, got %v", candidates[0].End.Schema.Kind)
	}
}

func TestFindWildcardMatchesNonTargetNamespace(t *testing.T) {
	pool := path.NewPool()
	root, seq, choice, _, _, any := demoSchema()
	containerPN := rootPN(pool, root)
	rootDoc := containerPN.Doc.EnsureChild(0, root)
	elementPN := &path.Node{Schema: root, Doc: rootDoc, Direction: path.Child, Iteration: 1, MaxOccurs: root.MaxOccurs}

	// The wildcard position only becomes admissible once the sequence's
	// mandatory leading choice has met its minimum (one occurrence).
	seqDoc := rootDoc.EnsureChild(0, seq)
	seqDoc.Iteration = 1
	choiceDoc := seqDoc.EnsureChild(0, choice)
	choiceDoc.Iteration = 1

	foreign := schema.QName{URI: "urn:foreign", Local: "foo"}
	candidates := Find(pool, elementPN, Target{QName: foreign})
	if len(candidates) == 0 {
		t.Fatalf("expected the wildcard to admit a foreign-namespace element")
	}
	found := false
	for _, c := range candidates {
		if c.End.Schema == any {
			found = true
		}
	}
	if !found {
		t.Errorf("expected one candidate to end at the ANY node, got %+v", candidates)
	}
}

func TestFindWildcardRejectsTargetNamespace(t *testing.T) {
	pool := path.NewPool()
	root, seq, choice, _, _, _ := demoSchema()
	containerPN := rootPN(pool, root)
	rootDoc := containerPN.Doc.EnsureChild(0, root)
	elementPN := &path.Node{Schema: root, Doc: rootDoc, Direction: path.Child, Iteration: 1, MaxOccurs: root.MaxOccurs}

	seqDoc := rootDoc.EnsureChild(0, seq)
	seqDoc.Iteration = 1
	choiceDoc := seqDoc.EnsureChild(0, choice)
	choiceDoc.Iteration = 1

	ownNamespace := schema.QName{URI: "urn:home", Local: "foo"}
	candidates := Find(pool, elementPN, Target{QName: ownNamespace})
	if len(candidates) != 0 {
		t.Errorf("expected ##other to reject the wildcard's own target namespace, got %d candidates", len(candidates))
	}
}

func TestFindSiblingReentryAfterChoiceOccurrence(t *testing.T) {
	pool := path.NewPool()
	root, seq, choice, _, b, any := demoSchema()
	containerPN := rootPN(pool, root)
	rootDoc := containerPN.Doc.EnsureChild(0, root)
	elementPN := &path.Node{Schema: root, Doc: rootDoc, Direction: path.Child, Iteration: 1, MaxOccurs: root.MaxOccurs}

	// Commit <A/> having already occurred once: sequence -> choice
	// (iteration 1, chose A at index 0).
	seqDoc := rootDoc.EnsureChild(0, seq)
	seqDoc.Iteration = 1
	choiceDoc := seqDoc.EnsureChild(0, choice)
	choiceDoc.Iteration = 1

	// Searching for <B/> next must find it by re-entering choice for its
	// next repetition, landing on b. The optional wildcard after the
	// choice is admissible too, and ##other (target urn:home) also accepts
	// the unqualified <B/>; Order ranks the element candidate first.
	candidates := Find(pool, elementPN, Target{QName: schema.QName{Local: "B"}})
	Order(candidates)
	if len(candidates) != 2 {
		t.Fatalf("expected two candidates for <B/> after <A/> (choice re-entry and the wildcard), got %d", len(candidates))
	}
	if candidates[0].End.Schema != b {
		t.Errorf("expected the first candidate to end at schema node b, got %v", candidates[0].End.Schema)
	}
	if candidates[1].End.Schema != any {
		t.Errorf("expected the second candidate to end at the ANY node, got %v", candidates[1].End.Schema)
	}
}

func TestFindClosedElementOffersOnlySiblingReentry(t *testing.T) {
	pool := path.NewPool()
	x := schema.NewElement(schema.QName{Local: "X"}, 1, 1, schema.TypeInfo{Simple: true}, false, nil)
	inner := schema.NewCompositor(schema.Sequence, 1, 1, x)
	item := schema.NewElement(schema.QName{Local: "item"}, 1, 2, schema.TypeInfo{}, false, inner)
	seq := schema.NewCompositor(schema.Sequence, 1, 1, item)
	root := schema.NewElement(schema.QName{Local: "root"}, 1, 1, schema.TypeInfo{}, false, seq)

	containerPN := rootPN(pool, root)
	rootDoc := containerPN.Doc.EnsureChild(0, root)
	rootDoc.Iteration = 1
	seqDoc := rootDoc.EnsureChild(0, seq)
	seqDoc.Iteration = 1
	itemDoc := seqDoc.EnsureChild(0, item)
	itemDoc.Iteration = 1

	// current rests at the closed item: one occurrence consumed, a second
	// still admitted by its bounds.
	closedPN := &path.Node{Schema: item, Doc: itemDoc, Direction: path.Child, Iteration: 1, MaxOccurs: item.MaxOccurs}

	// A second <item> is reachable only as a fresh sibling occurrence.
	candidates := Find(pool, closedPN, Target{QName: schema.QName{Local: "item"}, CurrentElementClosed: true})
	if len(candidates) != 1 {
		t.Fatalf("expected exactly one candidate (the sibling re-entry), got %d", len(candidates))
	}
	if candidates[0].End.Schema != item || candidates[0].End.Iteration != 2 {
		t.Errorf("expected the candidate to end at item's second occurrence, got %+v", candidates[0].End)
	}

	// <X/> belongs to the consumed occurrence's content model and must not
	// be reachable by descending back into it.
	if got := Find(pool, closedPN, Target{QName: schema.QName{Local: "X"}, CurrentElementClosed: true}); len(got) != 0 {
		t.Errorf("expected no candidates for a child of a closed element, got %d", len(got))
	}
}

func TestFindRecyclesCurrentWithoutConsumingIt(t *testing.T) {
	pool := path.NewPool()
	root, _, _, _, _, _ := demoSchema()
	containerPN := rootPN(pool, root)
	rootDoc := containerPN.Doc.EnsureChild(0, root)
	elementPN := &path.Node{Schema: root, Doc: rootDoc, Direction: path.Child, Iteration: 1, MaxOccurs: root.MaxOccurs}

	_ = Find(pool, elementPN, Target{QName: schema.QName{Local: "A"}})

	// The caller's own elementPN must remain usable (Find always clones
	// what it's handed rather than consuming the caller's real node).
	if elementPN.Schema != root || elementPN.Doc != rootDoc {
		t.Errorf("expected Find to leave the caller's current PN untouched, got %+v", elementPN)
	}
}
