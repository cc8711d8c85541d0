// Package encoder maps attribute and relation names of scene graphs to integer ids.
//
// The known names form the action space of the clause decoders. Names that were not
// seen when the encoder was built are hashed into a prime number of spare buckets
// placed after the known ids, so the embedding table has a fixed size.
package encoder

import (
	"errors"
	"sort"

	"github.com/jbarham/primegen"

	"github.com/neurlang/refrl/graph"
	"github.com/neurlang/refrl/hash"
)

// ErrEmpty is returned when no graph contributes any attribute or relation.
var ErrEmpty = errors.New("encoder: empty vocabulary")

// salt used when hashing out of vocabulary names
const salt = 0x9e3779b9

// AttrEncoder is the lookup list of attributes followed by relations.
// A name may be both an attribute and a relation, it then has two ids.
type AttrEncoder struct {
	lookup []string
	attrs  map[string]int
	rels   map[string]int
	split  int
	spare  uint32
}

// New creates an encoder over the given attribute and relation names. Duplicates are dropped.
// The number of spare buckets is the smallest prime not below a quarter of the vocabulary.
func New(attributes, relations []string) (*AttrEncoder, error) {
	attributes = unique(attributes)
	relations = unique(relations)
	if len(attributes)+len(relations) == 0 {
		return nil, ErrEmpty
	}
	e := &AttrEncoder{
		attrs: make(map[string]int, len(attributes)),
		rels:  make(map[string]int, len(relations)),
		split: len(attributes),
	}
	for _, name := range attributes {
		e.attrs[name] = len(e.lookup)
		e.lookup = append(e.lookup, name)
	}
	for _, name := range relations {
		e.rels[name] = len(e.lookup)
		e.lookup = append(e.lookup, name)
	}
	e.spare = nextPrime(uint64(len(e.lookup)+3) / 4)
	return e, nil
}

// MustNew is New that panics on error.
func MustNew(attributes, relations []string) *AttrEncoder {
	e, err := New(attributes, relations)
	if err != nil {
		panic(err.Error())
	}
	return e
}

// FromGraphs collects the vocabulary of every graph.
func FromGraphs(graphs ...*graph.Graph) (*AttrEncoder, error) {
	var attributes, relations []string
	for _, g := range graphs {
		attributes = append(attributes, g.Attributes()...)
		relations = append(relations, g.Relations()...)
	}
	return New(attributes, relations)
}

// Attr returns the id of an attribute. Unknown names land in the spare buckets.
func (e *AttrEncoder) Attr(name string) int {
	if id, ok := e.attrs[name]; ok {
		return id
	}
	return e.oov(name)
}

// Rel returns the id of a relation. Unknown names land in the spare buckets.
func (e *AttrEncoder) Rel(name string) int {
	if id, ok := e.rels[name]; ok {
		return id
	}
	return e.oov("rel:" + name)
}

func (e *AttrEncoder) oov(name string) int {
	return len(e.lookup) + int(hash.Bucket(name, salt, e.spare))
}

// KnownAttr reports whether name is an attribute of the vocabulary.
func (e *AttrEncoder) KnownAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// KnownRel reports whether name is a relation of the vocabulary.
func (e *AttrEncoder) KnownRel(name string) bool {
	_, ok := e.rels[name]
	return ok
}

// Name returns the name with id, or "" for spare buckets.
func (e *AttrEncoder) Name(id int) string {
	if id < 0 || id >= len(e.lookup) {
		return ""
	}
	return e.lookup[id]
}

// Size is the embedding table size: the vocabulary plus the spare buckets.
func (e *AttrEncoder) Size() int {
	return len(e.lookup) + int(e.spare)
}

// Vocabulary is the number of known names.
func (e *AttrEncoder) Vocabulary() int {
	return len(e.lookup)
}

// Attributes returns the known attribute names in id order.
func (e *AttrEncoder) Attributes() []string {
	return e.lookup[:e.split]
}

// Relations returns the known relation names in id order.
func (e *AttrEncoder) Relations() []string {
	return e.lookup[e.split:]
}

// Lookup returns every known name in id order.
func (e *AttrEncoder) Lookup() []string {
	return e.lookup
}

func unique(names []string) []string {
	set := make(map[string]struct{}, len(names))
	o := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := set[n]; ok || n == "" {
			continue
		}
		set[n] = struct{}{}
		o = append(o, n)
	}
	sort.Strings(o)
	return o
}

func nextPrime(n uint64) uint32 {
	p := primegen.New()
	if n > 2 {
		p.SkipTo(n)
	}
	return uint32(p.Next())
}
