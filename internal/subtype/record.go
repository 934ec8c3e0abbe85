// Package subtype turns tile hits into a hierarchical subtype call.
//
// A result moves through typed phases: a Sample (identity only) is
// resolved into a Resolved record, which the qc package finalises. Fields
// that are not computed yet are therefore not reachable.
package subtype

import "strings"

// InputKind says how a sample was sequenced. Coverage depth is only
// meaningful for reads.
type InputKind uint8

const (
	Contigs InputKind = iota
	Reads
)

func (k InputKind) String() string {
	if k == Reads {
		return "reads"
	}
	return "contigs"
}

// Sample identifies the input before resolution.
type Sample struct {
	Name  string
	Files []string
	Kind  InputKind
}

// Resolved is the populated record, ready for QC. Treat it as read-only;
// slices are never shared with the resolver's scratch state.
type Resolved struct {
	Sample        Sample
	Scheme        string
	SchemeVersion string

	Subtype              string   // empty when no call was made
	AllSubtypes          []string // top level down to Subtype
	NonPresentSubtypes   []string
	InconsistentSubtypes []string // set when lineages share no common ancestor
	UndecidedSubtypes    []string // sibling candidates below Subtype

	TilesMatchingSubtype         []string
	NegativeTilesMatchingSubtype []string

	AreSubtypesConsistent bool
	// Target sites with both a positive and a negative tile present, one
	// entry per strand the positive tile was seen on.
	CollidingSites    []int
	CollidingSubtypes []string

	NTilesMatchingAll              int
	NTilesMatchingAllExpected      int
	NTilesMatchingPositive         int
	NTilesMatchingPositiveExpected int
	NTilesMatchingNegative         int
	NTilesMatchingNegativeExpected int
	NTilesMatchingSubtype          int
	NTilesMatchingSubtypeExpected  int

	AvgTileCoverage float64 // reads only
}

// IsReads reports whether coverage-based checks apply.
func (r Resolved) IsReads() bool { return r.Sample.Kind == Reads }

// HasCall reports whether a subtype was resolved.
func (r Resolved) HasCall() bool { return r.Subtype != "" }

// Join renders a label list the way reports do.
func Join(labels []string) string { return strings.Join(labels, "; ") }
