package schema

// WildcardMode identifies which xs:any namespace-constraint form applies.
type WildcardMode int

const (
	// AnyNamespace accepts elements from every namespace.
	AnyNamespace WildcardMode = iota
	// OtherNamespace accepts elements from any namespace except the target
	// namespace recorded on the wildcard itself.
	OtherNamespace
	// TargetNamespaceOnly accepts only elements in the wildcard's own
	// target namespace.
	TargetNamespaceOnly
	// LocalNamespace accepts only unqualified (no-namespace) elements.
	LocalNamespace
	// ListNamespaces accepts only elements whose namespace appears in
	// Namespaces.
	ListNamespaces
)

// WildcardSpec is the namespace-constraint rule carried by an ANY node.
//
// TargetNamespace is the wildcard's own originating schema's target
// namespace, used directly by TargetNamespaceOnly and as the exclusion
// value for OtherNamespace. It is frequently unset by schema walkers that
// do not track per-wildcard origin; see match.WithWildcardTargetNamespaceOverride
// for how the matcher falls back to the currently-open element's namespace
// in that case.
type WildcardSpec struct {
	Mode            WildcardMode
	TargetNamespace string
	Namespaces      []string // for ListNamespaces
}

// Accepts reports whether uri satisfies this wildcard's namespace rule.
// fallbackTargetNamespace is used in place of an empty TargetNamespace for
// the OtherNamespace/TargetNamespaceOnly modes when the matcher is
// configured to apply that fallback; pass "" to disable the fallback and
// require WildcardSpec.TargetNamespace to be set.
func (w WildcardSpec) Accepts(uri, fallbackTargetNamespace string) bool {
	targetNS := w.TargetNamespace
	if targetNS == "" {
		targetNS = fallbackTargetNamespace
	}
	switch w.Mode {
	case AnyNamespace:
		return true
	case OtherNamespace:
		if targetNS == "" {
			return false
		}
		return uri != targetNS
	case TargetNamespaceOnly:
		return targetNS != "" && uri == targetNS
	case LocalNamespace:
		return uri == ""
	case ListNamespaces:
		for _, ns := range w.Namespaces {
			if ns == uri {
				return true
			}
		}
		return false
	default:
		return false
	}
}
