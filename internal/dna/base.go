package dna

// Base indexes used by the matcher's 4-letter automaton.
const (
	A = iota
	C
	G
	T
)

var baseIdx [256]int8

func init() {
	for i := range baseIdx {
		baseIdx[i] = -1
	}
	for _, p := range []struct {
		b  byte
		ix int8
	}{{'A', A}, {'C', C}, {'G', G}, {'T', T}, {'U', T}} {
		baseIdx[p.b] = p.ix
		baseIdx[p.b|0x20] = p.ix // lower case
	}
}

// Index maps a nucleotide to 0..3 (case-insensitive, U as T) or -1 for
// anything else, including N and gaps.
func Index(b byte) int { return int(baseIdx[b]) }

// IsACGT reports whether every byte of p is an unambiguous base.
func IsACGT(p []byte) bool {
	for _, c := range p {
		if baseIdx[c] < 0 {
			return false
		}
	}
	return true
}

// Normalize upper-cases seq in place, maps U to T, and returns it.
func Normalize(seq []byte) []byte {
	for i, c := range seq {
		if c >= 'a' && c <= 'z' {
			c -= 0x20
		}
		if c == 'U' {
			c = 'T'
		}
		seq[i] = c
	}
	return seq
}
