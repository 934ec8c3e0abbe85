// internal/subtype/resolve.go
package subtype

import (
	"sort"

	"hansel/internal/config"
	"hansel/internal/matcher"
	"hansel/internal/scheme"
)

// tally is the per-node scratch state of one resolution.
type tally struct {
	pos     []int // present positive tile indexes
	neg     []int
	subtree int // present positive tiles in the node's subtree
}

// Resolve computes the subtype call for smp from its complete hit set.
// It never fails: a sample without usable tiles yields a record with no
// call and zero counts, which QC then grades.
func Resolve(smp Sample, s *scheme.Scheme, hits matcher.Hits, p config.Params) Resolved {
	r := Resolved{
		Sample:                smp,
		Scheme:                s.Name,
		SchemeVersion:         s.Version,
		AreSubtypesConsistent: true,
	}
	if p.SchemeVersionOverride != "" {
		r.SchemeVersion = p.SchemeVersionOverride
	}
	reads := smp.Kind == Reads

	// 1) presence per tile, counts per node
	present := make([]bool, len(s.Signatures))
	tallies := make(map[*scheme.Node]*tally, len(s.Nodes()))
	for _, n := range s.Nodes() {
		tallies[n] = &tally{}
	}
	covSum := 0
	for i, sg := range s.Signatures {
		total := 0
		if i < len(hits) {
			total = hits[i].Total()
		}
		if !p.TilePresent(total, reads) {
			continue
		}
		present[i] = true
		covSum += total
		n, _ := s.Node(sg.Subtype)
		t := tallies[n]
		if sg.Polarity == scheme.Negative {
			t.neg = append(t.neg, i)
			r.NTilesMatchingNegative++
		} else {
			t.pos = append(t.pos, i)
			r.NTilesMatchingPositive++
		}
	}
	r.NTilesMatchingAll = r.NTilesMatchingPositive + r.NTilesMatchingNegative
	if reads && r.NTilesMatchingAll > 0 {
		r.AvgTileCoverage = float64(covSum) / float64(r.NTilesMatchingAll)
	}

	// subtree support, children before parents
	nodes := s.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		t := tallies[n]
		t.subtree += len(t.pos)
		if !n.Parent.IsRoot() {
			tallies[n.Parent].subtree += t.subtree
		}
	}

	// 2) same-site positive/negative collisions
	r.CollidingSites, r.CollidingSubtypes = collisions(s, hits, present)
	if len(r.CollidingSites) > 0 {
		r.AreSubtypesConsistent = false
	}

	// 3) walk the tree; only nodes with their own present positive tiles
	// are stepped into, subtree support ranks them
	lineages := 0
	for _, c := range s.Root().Children {
		if tallies[c].subtree > 0 {
			lineages++
		}
	}
	if lineages > 1 {
		// no common ancestor: mixed sample
		r.AreSubtypesConsistent = false
		for _, n := range nodes {
			if len(tallies[n].pos) > 0 {
				r.InconsistentSubtypes = append(r.InconsistentSubtypes, n.Label)
			}
		}
	}
	cur := s.Root()
	for {
		var cands []*scheme.Node
		for _, c := range cur.Children {
			if len(tallies[c].pos) > 0 {
				cands = append(cands, c)
			}
		}
		if len(cands) == 0 {
			break
		}
		if len(cands) == 1 {
			cur = cands[0]
			continue
		}
		if !cur.IsRoot() {
			for _, c := range cands {
				r.UndecidedSubtypes = append(r.UndecidedSubtypes, c.Label)
			}
			break
		}
		// Keep walking the best-supported lineage so the report still
		// carries a call.
		best := cands[0]
		for _, c := range cands[1:] {
			if tallies[c].subtree > tallies[best].subtree {
				best = c
			}
		}
		cur = best
	}

	if cur.IsRoot() {
		return r
	}

	// 4) call, chain, audit sets
	r.Subtype = cur.Label
	lineage := cur.Lineage()
	onChain := make(map[*scheme.Node]bool, len(lineage))
	for _, n := range lineage {
		r.AllSubtypes = append(r.AllSubtypes, n.Label)
		onChain[n] = true
	}
	for _, n := range nodes {
		t := tallies[n]
		if !onChain[n] && len(t.neg) > 0 && len(t.pos) == 0 {
			r.NonPresentSubtypes = append(r.NonPresentSubtypes, n.Label)
		}
	}

	// 5) tiles of the call itself
	t := tallies[cur]
	for _, i := range t.pos {
		r.TilesMatchingSubtype = append(r.TilesMatchingSubtype, s.Signatures[i].ID)
	}
	for _, i := range t.neg {
		r.NegativeTilesMatchingSubtype = append(r.NegativeTilesMatchingSubtype, s.Signatures[i].ID)
	}
	r.NTilesMatchingSubtype = len(t.pos)

	// 6) QC baselines
	e := s.Expected(cur.Label)
	r.NTilesMatchingAllExpected = e.All
	r.NTilesMatchingPositiveExpected = e.Positive
	r.NTilesMatchingNegativeExpected = e.Negative
	r.NTilesMatchingSubtypeExpected = e.Subtype
	return r
}

// collisions lists target sites where a positive and a negative tile are
// both present. Sites are reported once per strand on which a present
// positive tile was seen: the forward pass first, then the reverse pass,
// each in ascending site order.
func collisions(s *scheme.Scheme, hits matcher.Hits, present []bool) ([]int, []string) {
	type siteState struct {
		pos, neg bool
		posIdx   []int
	}
	bySite := make(map[int]*siteState)
	for i, sg := range s.Signatures {
		if !present[i] {
			continue
		}
		st, ok := bySite[sg.Site]
		if !ok {
			st = &siteState{}
			bySite[sg.Site] = st
		}
		if sg.Polarity == scheme.Negative {
			st.neg = true
		} else {
			st.pos = true
			st.posIdx = append(st.posIdx, i)
		}
	}
	var sites []int
	for site, st := range bySite {
		if st.pos && st.neg {
			sites = append(sites, site)
		}
	}
	if len(sites) == 0 {
		return nil, nil
	}
	sort.Ints(sites)

	var out []int
	labels := make(map[string]struct{})
	for _, strand := range []matcher.Strand{matcher.Forward, matcher.Reverse} {
		for _, site := range sites {
			for _, i := range bySite[site].posIdx {
				h := hits[i]
				n := h.Forward
				if strand == matcher.Reverse {
					n = h.Reverse
				}
				if n > 0 {
					out = append(out, site)
					break
				}
			}
		}
	}
	for _, site := range sites {
		for _, i := range bySite[site].posIdx {
			labels[s.Signatures[i].Subtype] = struct{}{}
		}
	}
	var ls []string
	for l := range labels {
		ls = append(ls, l)
	}
	sort.Slice(ls, func(i, j int) bool { return scheme.CompareLabels(ls[i], ls[j]) < 0 })
	return out, ls
}
