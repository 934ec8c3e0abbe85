package matcher

import "hansel/internal/scheme"

// Evidence is one row of the per-tile audit table.
type Evidence struct {
	TileID   string
	Site     int
	Subtype  string
	Polarity scheme.Polarity
	Forward  int
	Reverse  int
	Inputs   []int
}

// Total is the occurrence count over both strands.
func (e Evidence) Total() int { return e.Forward + e.Reverse }

// Count returns the occurrences on one strand.
func (e Evidence) Count(s Strand) int {
	if s == Reverse {
		return e.Reverse
	}
	return e.Forward
}

// Evidence lays the hits out in scheme order, one row per tile including
// tiles that were never seen.
func (h Hits) Evidence(s *scheme.Scheme) []Evidence {
	out := make([]Evidence, len(s.Signatures))
	for i, sg := range s.Signatures {
		out[i] = Evidence{
			TileID:   sg.ID,
			Site:     sg.Site,
			Subtype:  sg.Subtype,
			Polarity: sg.Polarity,
		}
		if i < len(h) {
			out[i].Forward = h[i].Forward
			out[i].Reverse = h[i].Reverse
			out[i].Inputs = h[i].Inputs
		}
	}
	return out
}
