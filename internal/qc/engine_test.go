package qc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hansel/internal/config"
	"hansel/internal/matcher"
	"hansel/internal/scheme"
	"hansel/internal/subtype"
)

var emptyDefaults = scheme.Defaults{}

func fixed(st Status, msg string) Rule {
	return Rule{Name: string(st), Check: func(subtype.Resolved, []matcher.Evidence, config.Params) (Status, string) {
		return st, msg
	}}
}

func TestFoldSeverity(t *testing.T) {
	tests := []struct {
		name    string
		rules   []Rule
		status  Status
		message string
	}{
		{"no rules", nil, PASS, ""},
		{"all pass", []Rule{fixed(PASS, ""), fixed(PASS, "")}, PASS, ""},
		{"warning", []Rule{fixed(PASS, ""), fixed(WARNING, "w")}, WARNING, "WARNING: w"},
		{"fail beats warning", []Rule{fixed(FAIL, "f"), fixed(WARNING, "w")}, FAIL, "FAIL: f | WARNING: w"},
		{"never downgraded", []Rule{fixed(WARNING, "w"), fixed(FAIL, "f"), fixed(WARNING, "w2")}, FAIL, "WARNING: w | FAIL: f | WARNING: w2"},
		{"first terminal wins", []Rule{fixed(UNCONFIDENT, "u"), fixed(FAIL, "f")}, UNCONFIDENT, "UNCONFIDENT: u | FAIL: f"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Fold(subtype.Resolved{}, nil, config.Defaults(), tc.rules)
			assert.Equal(t, tc.status, f.QCStatus)
			assert.Equal(t, tc.message, f.QCMessage)
		})
	}
}

func TestFoldOrderDoesNotChangeStatus(t *testing.T) {
	a := []Rule{fixed(WARNING, "w"), fixed(FAIL, "f"), fixed(PASS, "")}
	b := []Rule{a[2], a[1], a[0]}
	assert.Equal(t,
		Fold(subtype.Resolved{}, nil, config.Defaults(), a).QCStatus,
		Fold(subtype.Resolved{}, nil, config.Defaults(), b).QCStatus)
}

func TestRunCleanCall(t *testing.T) {
	r := subtype.Resolved{
		Sample:                        subtype.Sample{Name: "s", Kind: subtype.Contigs},
		Subtype:                       "2.1",
		AllSubtypes:                   []string{"2", "2.1"},
		AreSubtypesConsistent:         true,
		NTilesMatchingAll:             10,
		NTilesMatchingAllExpected:     10,
		NTilesMatchingSubtype:         4,
		NTilesMatchingSubtypeExpected: 4,
	}
	f := Run(r, nil, config.Defaults())
	assert.Equal(t, PASS, f.QCStatus)
	assert.Empty(t, f.QCMessage)
	assert.True(t, f.QCStatus.IsSet())
	assert.Equal(t, "2.1", f.Subtype)
}

func TestRunMixedPositiveNegative(t *testing.T) {
	r := subtype.Resolved{
		Sample:                subtype.Sample{Name: "s", Kind: subtype.Contigs},
		Subtype:               "1.1",
		AreSubtypesConsistent: false,
		CollidingSites:        []int{202001, 202001},
		CollidingSubtypes:     []string{"1.1"},
	}
	f := Run(r, nil, config.Defaults())
	assert.Equal(t, FAIL, f.QCStatus)
	assert.Contains(t, f.QCMessage, `FAIL: Mixed subtype; the positive and negative tiles were found for the same target sites 202001, 202001 for subtype "1.1".`)
}

func TestRunNoCall(t *testing.T) {
	f := Run(subtype.Resolved{Sample: subtype.Sample{Kind: subtype.Reads}, AreSubtypesConsistent: true}, nil, config.Defaults())
	assert.Equal(t, FAIL, f.QCStatus)
	assert.Equal(t, "FAIL: No subtype result! | WARNING: Low coverage for all tiles (0.000 < 20 expected)", f.QCMessage)
}

func TestStatusZeroValue(t *testing.T) {
	var s Status
	assert.False(t, s.IsSet())
	assert.Equal(t, 0, s.Severity())
}
