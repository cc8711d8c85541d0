// Package clause defines the symbolic clauses emitted by the decoders.
package clause

import "fmt"

// Kind selects what a clause constrains.
type Kind byte

const (
	// Attr constrains the target variable to carry an attribute: red(x).
	Attr Kind = iota
	// Rel constrains the target variable to relate to another object: left(x, y).
	Rel
)

// Kinds lists every kind in decoding order.
var Kinds = [...]Kind{Attr, Rel}

func (k Kind) String() string {
	switch k {
	case Attr:
		return "attr"
	case Rel:
		return "rel"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// Clause is one decoded decision.
type Clause struct {
	Kind      Kind   `json:"kind"`
	Predicate string `json:"predicate"`
}

// NewAttr creates an attribute clause.
func NewAttr(pred string) Clause {
	return Clause{Kind: Attr, Predicate: pred}
}

// NewRel creates a relation clause.
func NewRel(pred string) Clause {
	return Clause{Kind: Rel, Predicate: pred}
}

func (c Clause) String() string {
	if c.Kind == Rel {
		return c.Predicate + "(x, y)"
	}
	return c.Predicate + "(x)"
}
