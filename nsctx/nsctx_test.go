package nsctx

import "testing"

func TestNewRegistryImplicitBindings(t *testing.T) {
	r := New()
	if uri, ok := r.Lookup("xml"); !ok || uri != "http://www.w3.org/XML/1998/namespace" {
		t.Errorf("expected the implicit xml prefix binding, got %q ok=%v", uri, ok)
	}
	if uri, ok := r.Lookup("xmlns"); !ok || uri != "http://www.w3.org/2000/xmlns/" {
		t.Errorf("expected the implicit xmlns prefix binding, got %q ok=%v", uri, ok)
	}
	if _, ok := r.Lookup("foo"); ok {
		t.Errorf("expected an unbound prefix to resolve to ok=false")
	}
}

func TestStartPrefixMappingShadowsOuterBinding(t *testing.T) {
	r := New()
	r.StartPrefixMapping("p", "urn:outer")
	r.StartPrefixMapping("p", "urn:inner")

	if uri, ok := r.Lookup("p"); !ok || uri != "urn:inner" {
		t.Errorf("expected the innermost binding to win, got %q ok=%v", uri, ok)
	}
}

func TestEndPrefixMappingRevealsOuterBinding(t *testing.T) {
	r := New()
	r.StartPrefixMapping("p", "urn:outer")
	r.StartPrefixMapping("p", "urn:inner")

	r.EndPrefixMapping("p")
	if uri, ok := r.Lookup("p"); !ok || uri != "urn:outer" {
		t.Errorf("expected EndPrefixMapping to reveal the outer binding, got %q ok=%v", uri, ok)
	}

	r.EndPrefixMapping("p")
	if _, ok := r.Lookup("p"); ok {
		t.Errorf("expected the prefix to be fully unbound after both mappings end")
	}
}

func TestEndPrefixMappingUnknownPrefixIsNoop(t *testing.T) {
	r := New()
	r.EndPrefixMapping("never-bound")
	if uri, ok := r.Lookup("xml"); !ok || uri != "http://www.w3.org/XML/1998/namespace" {
		t.Errorf("expected ending an unbound prefix to leave existing bindings intact, got %q ok=%v", uri, ok)
	}
}
