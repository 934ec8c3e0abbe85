// internal/writers/jsonl.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"hansel/internal/output"
	"hansel/internal/qc"
)

// Reuse a 64 KiB buffered writer across JSONL writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// encodeLines writes each value of in as one JSON line. Broken pipes are
// not reported; the rest of in is drained after any error.
func encodeLines[T any](out io.Writer, in <-chan T, encode func(*json.Encoder, T) error) error {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(out)
	defer func() {
		bw.Reset(io.Discard)
		bwPool.Put(bw)
	}()

	enc := json.NewEncoder(bw)
	for v := range in {
		if err := encode(enc, v); err != nil {
			drain(in)
			return Quiet(err)
		}
	}
	return Quiet(bw.Flush())
}

func writeResultsJSONL(w io.Writer, in <-chan qc.Finalized, o Options) error {
	return encodeLines(w, in, func(enc *json.Encoder, f qc.Finalized) error {
		return enc.Encode(output.ToAPISubtype(o.RunID, f))
	})
}

func writeEvidenceJSONL(w io.Writer, in <-chan SampleEvidence, _ Options) error {
	return encodeLines(w, in, func(enc *json.Encoder, se SampleEvidence) error {
		for _, e := range se.Rows {
			if err := enc.Encode(output.ToAPIEvidence(se.Sample, e)); err != nil {
				return err
			}
		}
		return nil
	})
}

func init() {
	RegisterResult("jsonl", writeResultsJSONL)
	RegisterEvidence("jsonl", writeEvidenceJSONL)
}
