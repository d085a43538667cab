// Package validate is the external validator boundary: lexical-space
// checks the matcher delegates to rather than understanding itself. The
// matcher treats this purely as a collaborator interface; this package
// supplies that interface plus a default implementation sufficient to
// drive the matcher end-to-end without a real schema-aware type system
// wired in.
package validate

import (
	"github.com/dshills/schemapath/nsctx"
	"github.com/dshills/schemapath/schema"
)

// Attr is one attribute reported alongside a startElement event.
type Attr struct {
	Name  schema.QName
	Value string
}

// Attrs is the attribute set passed to AttributeValidator, in document
// order.
type Attrs []Attr

// Get returns the value of the first attribute named name, if present.
func (a Attrs) Get(name schema.QName) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// AttributeValidator checks an element's reported attributes against its
// schema type. A non-nil error is surfaced by match as ErrContentInvalid.
type AttributeValidator interface {
	ValidateAttributes(ssn *schema.Node, attrs Attrs, ns *nsctx.Registry) error
}

// ContentValidator checks an element's simple-typed text content. A
// non-nil error is surfaced by match as ErrContentInvalid.
type ContentValidator interface {
	ValidateContent(ssn *schema.Node, text string, ns *nsctx.Registry) error
}

// Validator is the full external validator collaborator: attribute
// validation at startElement plus character-content validation.
type Validator interface {
	AttributeValidator
	ContentValidator
}

// Lenient accepts every attribute set and every text value without
// inspection. It is the default used by examples and by tests that exist
// to exercise the matcher's own structural rules rather than lexical-space
// checking.
type Lenient struct{}

// ValidateAttributes always succeeds.
func (Lenient) ValidateAttributes(*schema.Node, Attrs, *nsctx.Registry) error { return nil }

// ValidateContent always succeeds.
func (Lenient) ValidateContent(*schema.Node, string, *nsctx.Registry) error { return nil }
