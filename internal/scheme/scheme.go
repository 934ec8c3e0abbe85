// Package scheme holds the static tile panel and the subtype tree it encodes.
package scheme

import (
	"errors"
	"fmt"
	"sort"

	"hansel/internal/dna"
)

// ErrInvalidScheme wraps every structural problem found while building a Scheme.
var ErrInvalidScheme = errors.New("invalid scheme")

// Polarity says whether finding a tile supports or refutes its subtype.
type Polarity uint8

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// Signature is one diagnostic tile.
type Signature struct {
	ID       string
	Site     int // target site in reference coordinates
	Subtype  string
	Polarity Polarity
	Seq      []byte // upper-case, forward orientation
}

// Expected holds the tile counts a scheme designer expects at a given call.
type Expected struct {
	All      int `yaml:"all"`
	Positive int `yaml:"positive"`
	Negative int `yaml:"negative"`
	Subtype  int `yaml:"subtype"`
}

// Defaults are per-scheme QC thresholds; zero means "not set".
type Defaults struct {
	LowCoverageWarning        float64 `yaml:"low_coverage_warning"`
	LowCoverageDepthFail      float64 `yaml:"low_coverage_depth_fail"`
	MaxIntermediateTilesRatio float64 `yaml:"max_intermediate_tiles_ratio"`
	MaxMissingTiles           float64 `yaml:"max_missing_tiles"`
	MinTileFreq               int     `yaml:"min_tile_freq"`
	MaxTileFreq               int     `yaml:"max_tile_freq"`
}

// Scheme is immutable after New and safe for concurrent readers.
type Scheme struct {
	Name       string
	Version    string
	Signatures []Signature
	Defaults   Defaults

	root     *Node
	nodes    map[string]*Node
	order    []*Node // every non-root node, tree order
	expected map[string]Expected
	negTotal int
}

// New validates sigs and builds the subtype tree. meta may be nil.
func New(name, version string, sigs []Signature, meta *Metadata) (*Scheme, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidScheme)
	}
	if len(sigs) == 0 {
		return nil, fmt.Errorf("%w: %s has no tiles", ErrInvalidScheme, name)
	}
	sigs = append([]Signature(nil), sigs...)
	s := &Scheme{
		Name:       name,
		Version:    version,
		Signatures: sigs,
		root:       &Node{},
		nodes:      make(map[string]*Node),
		expected:   make(map[string]Expected),
	}
	seen := make(map[string]struct{}, len(sigs))
	for i := range sigs {
		sg := &sigs[i]
		if sg.ID == "" {
			return nil, fmt.Errorf("%w: tile %d has no id", ErrInvalidScheme, i)
		}
		if _, dup := seen[sg.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate tile id %q", ErrInvalidScheme, sg.ID)
		}
		seen[sg.ID] = struct{}{}
		if len(sg.Seq) == 0 || !dna.IsACGT(sg.Seq) {
			return nil, fmt.Errorf("%w: tile %q must be non-empty A/C/G/T", ErrInvalidScheme, sg.ID)
		}
		sg.Seq = dna.Normalize(append([]byte(nil), sg.Seq...))
		n, err := s.ensure(sg.Subtype)
		if err != nil {
			return nil, fmt.Errorf("%w: tile %q: %v", ErrInvalidScheme, sg.ID, err)
		}
		if sg.Polarity == Negative {
			n.Negative = append(n.Negative, i)
			s.negTotal++
		} else {
			n.Positive = append(n.Positive, i)
		}
	}
	s.root.sortChildren()
	s.order = s.root.walk(nil)

	if meta != nil {
		s.Defaults = meta.Defaults
		if meta.Version != "" && s.Version == "" {
			s.Version = meta.Version
		}
		for label, e := range meta.Expected {
			if _, ok := s.nodes[label]; !ok {
				return nil, fmt.Errorf("%w: expected counts for unknown subtype %q", ErrInvalidScheme, label)
			}
			s.expected[label] = e
		}
	}
	return s, nil
}

// ensure returns the node for label, creating it and any missing ancestors.
func (s *Scheme) ensure(label string) (*Node, error) {
	parts, err := splitLabel(label)
	if err != nil {
		return nil, err
	}
	cur := s.root
	for i := range parts {
		l := joinLabel(parts[:i+1])
		n, ok := s.nodes[l]
		if !ok {
			n = &Node{Label: l, Parent: cur, Depth: i + 1}
			cur.Children = append(cur.Children, n)
			s.nodes[l] = n
		}
		cur = n
	}
	return cur, nil
}

// Root is the unlabeled tree root.
func (s *Scheme) Root() *Node { return s.root }

// Node looks up a subtype by label.
func (s *Scheme) Node(label string) (*Node, bool) {
	n, ok := s.nodes[label]
	return n, ok
}

// Nodes returns every subtype node in tree order (parents before children,
// siblings in label order).
func (s *Scheme) Nodes() []*Node { return s.order }

// Expected returns the expected tile counts for a call of label: the
// metadata entry when the scheme provides one, otherwise counts derived
// from the tiles themselves.
func (s *Scheme) Expected(label string) Expected {
	if e, ok := s.expected[label]; ok {
		return e
	}
	n, ok := s.nodes[label]
	if !ok {
		return Expected{}
	}
	var e Expected
	lineageNeg := 0
	for _, a := range n.Lineage() {
		e.Positive += len(a.Positive)
		lineageNeg += len(a.Negative)
	}
	e.Negative = s.negTotal - lineageNeg
	e.All = e.Positive + e.Negative
	e.Subtype = len(n.Positive)
	return e
}

// Node is one subtype in the tree. The root has an empty Label and Depth 0.
type Node struct {
	Label    string
	Parent   *Node
	Children []*Node
	Depth    int
	Positive []int // indexes into Scheme.Signatures
	Negative []int
}

// IsRoot reports whether n is the unlabeled root.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// Lineage returns the chain of labeled nodes from the top level down to n.
func (n *Node) Lineage() []*Node {
	var out []*Node
	for cur := n; cur != nil && !cur.IsRoot(); cur = cur.Parent {
		out = append(out, cur)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// IsAncestorOf reports whether n lies on m's lineage (n == m counts).
func (n *Node) IsAncestorOf(m *Node) bool {
	for cur := m; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

func (n *Node) sortChildren() {
	sort.Slice(n.Children, func(i, j int) bool {
		return CompareLabels(n.Children[i].Label, n.Children[j].Label) < 0
	})
	for _, c := range n.Children {
		c.sortChildren()
	}
}

func (n *Node) walk(acc []*Node) []*Node {
	for _, c := range n.Children {
		acc = append(acc, c)
		acc = c.walk(acc)
	}
	return acc
}
