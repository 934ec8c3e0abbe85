// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"hansel/internal/matcher"
	"hansel/internal/qc"
)

// Options shared by every format.
type Options struct {
	Header bool   // TSV header row
	RunID  string // stamped on JSON/JSONL results
}

// SampleEvidence is the evidence table of one sample.
type SampleEvidence struct {
	Sample string
	Rows   []matcher.Evidence
}

type (
	ResultFunc   = func(w io.Writer, in <-chan qc.Finalized, o Options) error
	EvidenceFunc = func(w io.Writer, in <-chan SampleEvidence, o Options) error
)

// Writer registries (format → handler). Registered in init() blocks of the
// results and evidence files.
var (
	ResultWriters   = map[string]ResultFunc{}
	EvidenceWriters = map[string]EvidenceFunc{}
)

// Register helpers (idempotent last-wins)
func RegisterResult(format string, fn ResultFunc)     { ResultWriters[format] = fn }
func RegisterEvidence(format string, fn EvidenceFunc) { EvidenceWriters[format] = fn }

// ResultFormats lists registered result formats, sorted.
func ResultFormats() []string { return keys(ResultWriters) }

// EvidenceFormats lists registered evidence formats, sorted.
func EvidenceFormats() []string { return keys(EvidenceWriters) }

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lookupResult(format string) (ResultFunc, error) {
	fn, ok := ResultWriters[format]
	if !ok {
		return nil, fmt.Errorf("unknown result format %q (no writer registered)", format)
	}
	return fn, nil
}

func lookupEvidence(format string) (EvidenceFunc, error) {
	fn, ok := EvidenceWriters[format]
	if !ok {
		return nil, fmt.Errorf("unknown evidence format %q (no writer registered)", format)
	}
	return fn, nil
}

// drain keeps the producer unblocked after a writer gave up.
func drain[T any](in <-chan T) {
	for range in {
	}
}
