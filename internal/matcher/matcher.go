// Package matcher counts occurrences of every scheme tile, in both
// orientations, across a sample's sequences in a single pass per sequence.
package matcher

import (
	"bytes"
	"sort"

	"hansel/internal/dna"
	"hansel/internal/scheme"
)

// Strand distinguishes forward tile hits from reverse-complement hits.
type Strand uint8

const (
	Forward Strand = iota
	Reverse
)

func (s Strand) String() string {
	if s == Reverse {
		return "reverse"
	}
	return "forward"
}

type pattern struct {
	sig    int
	strand Strand
	seq    []byte
}

// Matcher is read-only after New; one instance may serve any number of
// concurrent Counters.
type Matcher struct {
	scheme *scheme.Scheme
	pats   []pattern
	nodes  []acNode
}

// New builds the automaton for every tile of s and its reverse complement.
// A palindromic tile is indexed once, on the forward strand.
func New(s *scheme.Scheme) *Matcher {
	pats := make([]pattern, 0, 2*len(s.Signatures))
	for i, sg := range s.Signatures {
		pats = append(pats, pattern{sig: i, strand: Forward, seq: sg.Seq})
		rc := dna.RevComp(sg.Seq)
		if !bytes.Equal(rc, sg.Seq) {
			pats = append(pats, pattern{sig: i, strand: Reverse, seq: rc})
		}
	}
	return &Matcher{scheme: s, pats: pats, nodes: buildAC(pats)}
}

// Scheme returns the scheme the automaton was built from.
func (m *Matcher) Scheme() *scheme.Scheme { return m.scheme }

// States is the automaton size, for logging.
func (m *Matcher) States() int { return len(m.nodes) }

// Hit is the tally for one tile.
type Hit struct {
	Forward int
	Reverse int
	Inputs  []int // sorted source indexes the tile was seen in
}

// Total is the occurrence count over both strands.
func (h Hit) Total() int { return h.Forward + h.Reverse }

// Hits is indexed like Scheme.Signatures.
type Hits []Hit

// Merge adds o into h; the result does not depend on merge order.
func (h Hits) Merge(o Hits) {
	for i := range o {
		h[i].Forward += o[i].Forward
		h[i].Reverse += o[i].Reverse
		for _, in := range o[i].Inputs {
			h[i].Inputs = insertSorted(h[i].Inputs, in)
		}
	}
}

// Counter accumulates hits for one sample. Not safe for concurrent use.
type Counter struct {
	m    *Matcher
	hits Hits
}

// NewCounter starts an empty tally against m.
func (m *Matcher) NewCounter() *Counter {
	return &Counter{m: m, hits: make(Hits, len(m.scheme.Signatures))}
}

// Add scans seq and attributes its hits to source. Empty or all-N
// sequences add nothing.
func (c *Counter) Add(source int, seq []byte) {
	scanAC(seq, c.m.nodes, func(pi int32) {
		p := c.m.pats[pi]
		h := &c.hits[p.sig]
		if p.strand == Reverse {
			h.Reverse++
		} else {
			h.Forward++
		}
		h.Inputs = insertSorted(h.Inputs, source)
	})
}

// Hits returns the tally collected so far.
func (c *Counter) Hits() Hits { return c.hits }

// Scan is Counter.Add over seqs, using each slice index as the source.
func (m *Matcher) Scan(seqs [][]byte) Hits {
	c := m.NewCounter()
	for i, s := range seqs {
		c.Add(i, s)
	}
	return c.Hits()
}

func insertSorted(xs []int, v int) []int {
	if n := len(xs); n > 0 && xs[n-1] == v {
		return xs
	}
	i := sort.SearchInts(xs, v)
	if i < len(xs) && xs[i] == v {
		return xs
	}
	xs = append(xs, 0)
	copy(xs[i+1:], xs[i:])
	xs[i] = v
	return xs
}
