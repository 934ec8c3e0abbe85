package matcher

import "hansel/internal/dna"

/*
Aho–Corasick automaton over A/C/G/T.

- buildAC(pats) builds a trie with failure links and dense goto edges,
  so scanning never walks fail chains.
- the scan loop emits every pattern ending at each position, overlaps
  included; a non-ACGT byte resets to the root.
*/

type acNode struct {
	next [4]int32 // -1 while building; dense after failure links are set
	fail int32
	out  []int32 // pattern indices ending here (own + via fail links)
}

func newACNode() acNode {
	return acNode{next: [4]int32{-1, -1, -1, -1}}
}

func buildAC(pats []pattern) []acNode {
	nodes := []acNode{newACNode()}

	// goto function
	for pi, p := range pats {
		state := int32(0)
		for _, b := range p.seq {
			ix := dna.Index(b)
			if nodes[state].next[ix] == -1 {
				nodes[state].next[ix] = int32(len(nodes))
				nodes = append(nodes, newACNode())
			}
			state = nodes[state].next[ix]
		}
		nodes[state].out = append(nodes[state].out, int32(pi))
	}

	// failure links (BFS)
	queue := make([]int32, 0, len(nodes))
	for ch := 0; ch < 4; ch++ {
		nx := nodes[0].next[ch]
		if nx != -1 {
			nodes[nx].fail = 0
			queue = append(queue, nx)
		} else {
			nodes[0].next[ch] = 0
		}
	}
	for qh := 0; qh < len(queue); qh++ {
		r := queue[qh]
		for ch := 0; ch < 4; ch++ {
			s := nodes[r].next[ch]
			if s != -1 {
				queue = append(queue, s)
				f := nodes[r].fail
				nodes[s].fail = nodes[f].next[ch]
				nodes[s].out = append(nodes[s].out, nodes[nodes[s].fail].out...)
			} else {
				nodes[r].next[ch] = nodes[nodes[r].fail].next[ch]
			}
		}
	}
	return nodes
}

// scanAC calls emit(patternIdx) once per occurrence of any pattern in seq.
func scanAC(seq []byte, nodes []acNode, emit func(pi int32)) {
	state := int32(0)
	for i := 0; i < len(seq); i++ {
		ix := dna.Index(seq[i])
		if ix < 0 {
			state = 0
			continue
		}
		state = nodes[state].next[ix]
		for _, pi := range nodes[state].out {
			emit(pi)
		}
	}
}
