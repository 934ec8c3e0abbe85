// internal/qc/rules.go
package qc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"hansel/internal/config"
	"hansel/internal/matcher"
	"hansel/internal/subtype"
)

// RuleFunc inspects one aspect of a call. It returns PASS with an empty
// message when it has nothing to report.
type RuleFunc func(r subtype.Resolved, ev []matcher.Evidence, p config.Params) (Status, string)

// Rule is a named RuleFunc.
type Rule struct {
	Name  string
	Check RuleFunc
}

// Rules is the default pipeline, in message order.
var Rules = []Rule{
	{"no_subtype_result", IsNoSubtypeResult},
	{"overall_coverage_low", IsOverallCoverageLow},
	{"missing_tiles", IsMissingTiles},
	{"mixed_subtypes", IsMixedSubtype},
	{"mixed_tiles_same_target", IsMixedTilesSameTarget},
	{"intermediate_subtype", IsMaybeIntermediateSubtype},
	{"unconfident_result", IsUnconfidentResult},
}

// IsNoSubtypeResult fails samples where no subtype could be called.
func IsNoSubtypeResult(r subtype.Resolved, _ []matcher.Evidence, _ config.Params) (Status, string) {
	if r.HasCall() {
		return PASS, ""
	}
	return FAIL, NoSubtypeResult
}

// IsOverallCoverageLow flags read samples whose mean tile coverage is
// below the warning threshold. It fails only when the stricter depth
// threshold sits below the warning threshold and is also missed.
func IsOverallCoverageLow(r subtype.Resolved, _ []matcher.Evidence, p config.Params) (Status, string) {
	if !r.IsReads() || r.AvgTileCoverage >= p.LowCoverageWarning {
		return PASS, ""
	}
	msg := fmt.Sprintf("Low coverage for all tiles (%.3f < %s expected)", r.AvgTileCoverage, formatThreshold(p.LowCoverageWarning))
	if p.LowCoverageDepthFail < p.LowCoverageWarning && r.AvgTileCoverage < p.LowCoverageDepthFail {
		return FAIL, msg
	}
	return WARNING, msg
}

// IsMissingTiles fails when the share of expected tiles not found exceeds
// MaxMissingTiles. For reads the message reports the median depth of the
// tiles that were found.
func IsMissingTiles(r subtype.Resolved, ev []matcher.Evidence, p config.Params) (Status, string) {
	exp := r.NTilesMatchingAllExpected
	missing := exp - r.NTilesMatchingAll
	if exp <= 0 || missing <= 0 {
		return PASS, ""
	}
	if float64(missing)/float64(exp) <= p.MaxMissingTiles {
		return PASS, ""
	}
	msg := fmt.Sprintf("%s: %d missing tiles; more than %.1f%% missing tiles threshold.",
		MissingTilesError1, missing, 100*p.MaxMissingTiles)
	if !r.IsReads() {
		return FAIL, msg + fmt.Sprintf(" The assembly may be incomplete, or this may be the wrong serovar or species for scheme %q.", r.Scheme)
	}
	depth := medianDepth(ev, p)
	if depth < p.LowCoverageDepthFail {
		return FAIL, msg + fmt.Sprintf(" Low coverage depth (%.1f < %.1f expected); you may need more WGS data.", depth, p.LowCoverageDepthFail)
	}
	return FAIL, msg + fmt.Sprintf(" Okay coverage depth (%.1f >= %.1f expected), but this may be the wrong serovar or species for scheme %q.",
		depth, p.LowCoverageDepthFail, r.Scheme)
}

// IsMixedSubtype fails when positive tiles support lineages that share no
// common ancestor.
func IsMixedSubtype(r subtype.Resolved, _ []matcher.Evidence, _ config.Params) (Status, string) {
	if len(r.InconsistentSubtypes) == 0 {
		return PASS, ""
	}
	return FAIL, fmt.Sprintf("%s: Mixed subtypes found: \"%s\".", MixedSampleError2, subtype.Join(r.InconsistentSubtypes))
}

// IsMixedTilesSameTarget fails when a target site has both its positive
// and negative tile present.
func IsMixedTilesSameTarget(r subtype.Resolved, _ []matcher.Evidence, _ config.Params) (Status, string) {
	if len(r.CollidingSites) == 0 {
		return PASS, ""
	}
	sites := make([]string, len(r.CollidingSites))
	for i, s := range r.CollidingSites {
		sites[i] = strconv.Itoa(s)
	}
	name := r.Subtype
	if name == "" {
		name = subtype.Join(r.CollidingSubtypes)
	}
	return FAIL, fmt.Sprintf("Mixed subtype; the positive and negative tiles were found for the same target sites %s for subtype \"%s\".",
		strings.Join(sites, ", "), name)
}

// IsMaybeIntermediateSubtype warns when a consistent call is supported by
// materially fewer of its own tiles than the scheme expects.
func IsMaybeIntermediateSubtype(r subtype.Resolved, _ []matcher.Evidence, p config.Params) (Status, string) {
	if !r.HasCall() || !r.AreSubtypesConsistent {
		return PASS, ""
	}
	obs, exp := r.NTilesMatchingSubtype, r.NTilesMatchingSubtypeExpected
	if exp <= 0 || obs >= exp {
		return PASS, ""
	}
	if float64(exp-obs)/float64(exp) <= p.MaxIntermediateTilesRatio {
		return PASS, ""
	}
	return WARNING, fmt.Sprintf("Possible intermediate subtype. Total subtype matches observed (n=%d) vs expected (n=%d)", obs, exp)
}

// IsUnconfidentResult fails when the call stopped above two or more
// downstream subtypes that each have positive tiles.
func IsUnconfidentResult(r subtype.Resolved, _ []matcher.Evidence, _ config.Params) (Status, string) {
	if len(r.UndecidedSubtypes) < 2 {
		return PASS, ""
	}
	quoted := make([]string, len(r.UndecidedSubtypes))
	for i, l := range r.UndecidedSubtypes {
		quoted[i] = "'" + l + "'"
	}
	return FAIL, fmt.Sprintf("%s: Unconfident subtype result. Subtype \"%s\" had hits for tiles for downstream subtype(s) %s; expected tiles of a single downstream subtype.",
		UnconfidentResultsError4, r.Subtype, strings.Join(quoted, ", "))
}

// medianDepth is the median hit count over tiles counted as present.
func medianDepth(ev []matcher.Evidence, p config.Params) float64 {
	var depths []int
	for _, e := range ev {
		if n := e.Total(); p.TilePresent(n, true) {
			depths = append(depths, n)
		}
	}
	if len(depths) == 0 {
		return 0
	}
	sort.Ints(depths)
	mid := len(depths) / 2
	if len(depths)%2 == 1 {
		return float64(depths[mid])
	}
	return float64(depths[mid-1]+depths[mid]) / 2
}

// formatThreshold prints 2 as "2" and 2.5 as "2.5".
func formatThreshold(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
