// pkg/api/subtype_v1.go
package api

// SubtypeV1 is the stable JSON/JSONL schema for one sample's result.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SubtypeV1 struct {
	RunID         string   `json:"run_id,omitempty"`
	Sample        string   `json:"sample"`
	FilePath      []string `json:"file_path"`
	InputKind     string   `json:"input_kind"` // "contigs" | "reads"
	Scheme        string   `json:"scheme"`
	SchemeVersion string   `json:"scheme_version"`

	Subtype              string   `json:"subtype"`
	AllSubtypes          []string `json:"all_subtypes"`
	NonPresentSubtypes   []string `json:"non_present_subtypes,omitempty"`
	InconsistentSubtypes []string `json:"inconsistent_subtypes,omitempty"`
	UndecidedSubtypes    []string `json:"undecided_subtypes,omitempty"`

	TilesMatchingSubtype         []string `json:"tiles_matching_subtype"`
	NegativeTilesMatchingSubtype []string `json:"negative_tiles_matching_subtype,omitempty"`
	AreSubtypesConsistent        bool     `json:"are_subtypes_consistent"`
	CollidingSites               []int    `json:"colliding_sites,omitempty"`

	NTilesMatchingAll              int `json:"n_tiles_matching_all"`
	NTilesMatchingAllExpected      int `json:"n_tiles_matching_all_expected"`
	NTilesMatchingPositive         int `json:"n_tiles_matching_positive"`
	NTilesMatchingPositiveExpected int `json:"n_tiles_matching_positive_expected"`
	NTilesMatchingNegative         int `json:"n_tiles_matching_negative"`
	NTilesMatchingNegativeExpected int `json:"n_tiles_matching_negative_expected"`
	NTilesMatchingSubtype          int `json:"n_tiles_matching_subtype"`
	NTilesMatchingSubtypeExpected  int `json:"n_tiles_matching_subtype_expected"`

	AvgTileCoverage float64 `json:"avg_tile_coverage"`
	QCStatus        string  `json:"qc_status"` // "PASS" | "WARNING" | "FAIL" | "UNCONFIDENT"
	QCMessage       string  `json:"qc_message"`
}

// EvidenceV1 is one tile row of a sample's evidence table.
type EvidenceV1 struct {
	Sample   string `json:"sample"`
	TileID   string `json:"tile_id"`
	Site     int    `json:"site"`
	Subtype  string `json:"subtype"`
	Positive bool   `json:"is_positive"`
	Forward  int    `json:"forward"`
	Reverse  int    `json:"reverse"`
	Total    int    `json:"total"`
	Inputs   []int  `json:"inputs,omitempty"` // file (reads) or contig indexes
}
