package match

import "github.com/dshills/schemapath/schema"

// elementStack tracks the currently-open elements, top last, so endElement
// can check it against the incoming qname and so a decision point can
// snapshot/restore it across backtracking.
type elementStack []schema.QName

func (s elementStack) top() (schema.QName, bool) {
	if len(s) == 0 {
		return schema.QName{}, false
	}
	return s[len(s)-1], true
}

func (s elementStack) clone() elementStack {
	return append(elementStack(nil), s...)
}

// renderedStack formats an elementStack/wildcardStack snapshot for
// decision.Point, which stores it as []string rather than depending on
// the schema package.
func renderedStack(s elementStack) []string {
	out := make([]string, len(s))
	for i, q := range s {
		out[i] = q.URI + "|" + q.Local
	}
	return out
}

func parseRenderedStack(s []string) elementStack {
	out := make(elementStack, len(s))
	for i, raw := range s {
		for j := 0; j < len(raw); j++ {
			if raw[j] == '|' {
				out[i] = schema.QName{URI: raw[:j], Local: raw[j+1:]}
				break
			}
		}
	}
	return out
}
