// Package qc grades a resolved subtype call. Each rule is a pure function
// of the record, the evidence table and the parameters; Run folds the
// rules into one status and one message.
package qc

// Status is a QC verdict. The zero value means QC has not run.
type Status string

const (
	PASS        Status = "PASS"
	WARNING     Status = "WARNING"
	FAIL        Status = "FAIL"
	UNCONFIDENT Status = "UNCONFIDENT"
)

// Named error codes that prefix rule messages. Type 3 (ambiguous
// downstream results) has no rule here.
const (
	NoSubtypeResult          = "No subtype result!"
	MissingTilesError1       = "Error Type 1"
	MixedSampleError2        = "Error Type 2"
	UnconfidentResultsError4 = "Error Type 4"
)

// Severity orders statuses; FAIL and UNCONFIDENT are both terminal.
func (s Status) Severity() int {
	switch s {
	case WARNING:
		return 1
	case FAIL, UNCONFIDENT:
		return 2
	default:
		return 0
	}
}

// IsSet reports whether QC has produced this status.
func (s Status) IsSet() bool { return s != "" }
