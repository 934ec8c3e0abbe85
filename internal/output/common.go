package output

// ResultTSVHeader is the canonical header row for the results table.
// Keep this as the single source of truth; all writers should use it.
const ResultTSVHeader = "sample\tscheme\tscheme_version\tsubtype\tall_subtypes\tnon_present_subtypes\ttiles_matching_subtype\tnegative_tiles_matching_subtype\tare_subtypes_consistent\tinconsistent_subtypes\tundecided_subtypes\tn_tiles_matching_all\tn_tiles_matching_all_expected\tn_tiles_matching_positive\tn_tiles_matching_positive_expected\tn_tiles_matching_negative\tn_tiles_matching_negative_expected\tn_tiles_matching_subtype\tn_tiles_matching_subtype_expected\tfile_path\tavg_tile_coverage\tqc_status\tqc_message"

// EvidenceTSVHeader is the header row for the per-tile evidence table.
const EvidenceTSVHeader = "sample\ttile_id\tsite\tsubtype\tis_positive\tforward\treverse\ttotal\tinputs"
