// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"hansel/internal/matcher"
	"hansel/internal/qc"
	"hansel/internal/scheme"
	"hansel/pkg/api"
)

// ToAPISubtype converts a finalized record to the stable wire schema (v1).
func ToAPISubtype(runID string, f qc.Finalized) api.SubtypeV1 {
	return api.SubtypeV1{
		RunID:         runID,
		Sample:        f.Sample.Name,
		FilePath:      nonNil(f.Sample.Files),
		InputKind:     f.Sample.Kind.String(),
		Scheme:        f.Scheme,
		SchemeVersion: f.SchemeVersion,

		Subtype:              f.Subtype,
		AllSubtypes:          nonNil(f.AllSubtypes),
		NonPresentSubtypes:   f.NonPresentSubtypes,
		InconsistentSubtypes: f.InconsistentSubtypes,
		UndecidedSubtypes:    f.UndecidedSubtypes,

		TilesMatchingSubtype:         nonNil(f.TilesMatchingSubtype),
		NegativeTilesMatchingSubtype: f.NegativeTilesMatchingSubtype,
		AreSubtypesConsistent:        f.AreSubtypesConsistent,
		CollidingSites:               f.CollidingSites,

		NTilesMatchingAll:              f.NTilesMatchingAll,
		NTilesMatchingAllExpected:      f.NTilesMatchingAllExpected,
		NTilesMatchingPositive:         f.NTilesMatchingPositive,
		NTilesMatchingPositiveExpected: f.NTilesMatchingPositiveExpected,
		NTilesMatchingNegative:         f.NTilesMatchingNegative,
		NTilesMatchingNegativeExpected: f.NTilesMatchingNegativeExpected,
		NTilesMatchingSubtype:          f.NTilesMatchingSubtype,
		NTilesMatchingSubtypeExpected:  f.NTilesMatchingSubtypeExpected,

		AvgTileCoverage: f.AvgTileCoverage,
		QCStatus:        string(f.QCStatus),
		QCMessage:       f.QCMessage,
	}
}

// ToAPIEvidence converts one evidence row (v1).
func ToAPIEvidence(sample string, e matcher.Evidence) api.EvidenceV1 {
	return api.EvidenceV1{
		Sample:   sample,
		TileID:   e.TileID,
		Site:     e.Site,
		Subtype:  e.Subtype,
		Positive: e.Polarity == scheme.Positive,
		Forward:  e.Forward,
		Reverse:  e.Reverse,
		Total:    e.Total(),
		Inputs:   append([]int(nil), e.Inputs...),
	}
}

// WriteJSON writes a single JSON array of v1 results (pretty-indented).
func WriteJSON(w io.Writer, runID string, list []qc.Finalized) error {
	out := make([]api.SubtypeV1, 0, len(list))
	for _, f := range list {
		out = append(out, ToAPISubtype(runID, f))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// nonNil keeps required list fields as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
