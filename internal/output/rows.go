// internal/output/rows.go
package output

import (
	"fmt"
	"strconv"
	"strings"

	"hansel/internal/matcher"
	"hansel/internal/qc"
	"hansel/internal/scheme"
	"hansel/internal/subtype"
)

func IntsCSV(a []int) string {
	if len(a) == 0 {
		return ""
	}
	ss := make([]string, len(a))
	for i, v := range a {
		ss[i] = strconv.Itoa(v)
	}
	return strings.Join(ss, ",")
}

// FormatResultRowTSV returns one results row (no trailing newline).
// Tabs and newlines inside free text are flattened to spaces.
func FormatResultRowTSV(f qc.Finalized) string {
	return strings.Join([]string{
		clean(f.Sample.Name),
		f.Scheme,
		f.SchemeVersion,
		f.Subtype,
		subtype.Join(f.AllSubtypes),
		subtype.Join(f.NonPresentSubtypes),
		subtype.Join(f.TilesMatchingSubtype),
		subtype.Join(f.NegativeTilesMatchingSubtype),
		strconv.FormatBool(f.AreSubtypesConsistent),
		subtype.Join(f.InconsistentSubtypes),
		subtype.Join(f.UndecidedSubtypes),
		strconv.Itoa(f.NTilesMatchingAll),
		strconv.Itoa(f.NTilesMatchingAllExpected),
		strconv.Itoa(f.NTilesMatchingPositive),
		strconv.Itoa(f.NTilesMatchingPositiveExpected),
		strconv.Itoa(f.NTilesMatchingNegative),
		strconv.Itoa(f.NTilesMatchingNegativeExpected),
		strconv.Itoa(f.NTilesMatchingSubtype),
		strconv.Itoa(f.NTilesMatchingSubtypeExpected),
		clean(subtype.Join(f.Sample.Files)),
		strconv.FormatFloat(f.AvgTileCoverage, 'f', 3, 64),
		string(f.QCStatus),
		clean(f.QCMessage),
	}, "\t")
}

// FormatEvidenceRowTSV returns one evidence row (no trailing newline).
func FormatEvidenceRowTSV(sample string, e matcher.Evidence) string {
	return fmt.Sprintf("%s\t%s\t%d\t%s\t%t\t%d\t%d\t%d\t%s",
		clean(sample), e.TileID, e.Site, e.Subtype, e.Polarity == scheme.Positive,
		e.Forward, e.Reverse, e.Total(), IntsCSV(e.Inputs),
	)
}

var flatten = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func clean(s string) string { return flatten.Replace(s) }
