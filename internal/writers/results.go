// internal/writers/results.go
package writers

import (
	"bufio"
	"fmt"
	"io"

	"hansel/internal/output"
	"hansel/internal/qc"
)

// StartResultWriter spins up a writer goroutine for finished samples. The
// returned channel must be closed by the caller; the error channel yields
// exactly one value once everything is flushed.
func StartResultWriter(out io.Writer, format string, o Options, bufSize int) (chan<- qc.Finalized, <-chan error) {
	return start(out, format, o, bufSize, lookupResult)
}

// StartEvidenceWriter is StartResultWriter for evidence tables.
func StartEvidenceWriter(out io.Writer, format string, o Options, bufSize int) (chan<- SampleEvidence, <-chan error) {
	return start(out, format, o, bufSize, lookupEvidence)
}

func start[T any](out io.Writer, format string, o Options, bufSize int,
	lookup func(string) (func(io.Writer, <-chan T, Options) error, error),
) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	errCh := make(chan error, 1)

	go func() {
		fn, err := lookup(format)
		if err != nil {
			drain[T](in)
			errCh <- err
			return
		}
		errCh <- fn(out, in, o)
	}()
	return in, errCh
}

func writeResultsTSV(w io.Writer, in <-chan qc.Finalized, o Options) error {
	bw := bufio.NewWriter(w)
	return writeTSV(bw, in, o.Header, output.ResultTSVHeader, func(f qc.Finalized) error {
		_, err := fmt.Fprintln(bw, output.FormatResultRowTSV(f))
		return err
	})
}

func writeResultsJSON(w io.Writer, in <-chan qc.Finalized, o Options) error {
	var buf []qc.Finalized
	for f := range in {
		buf = append(buf, f)
	}
	return Quiet(output.WriteJSON(w, o.RunID, buf))
}

func writeEvidenceTSV(w io.Writer, in <-chan SampleEvidence, o Options) error {
	bw := bufio.NewWriter(w)
	return writeTSV(bw, in, o.Header, output.EvidenceTSVHeader, func(se SampleEvidence) error {
		for _, e := range se.Rows {
			if _, err := fmt.Fprintln(bw, output.FormatEvidenceRowTSV(se.Sample, e)); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeTSV streams rows, flushing after each item so partial output is
// visible while later samples are still running.
func writeTSV[T any](bw *bufio.Writer, in <-chan T, header bool, head string, row func(T) error) error {
	fail := func(err error) error {
		drain(in)
		return Quiet(err)
	}
	if header {
		if _, err := fmt.Fprintln(bw, head); err != nil {
			return fail(err)
		}
	}
	for v := range in {
		if err := row(v); err != nil {
			return fail(err)
		}
		if err := bw.Flush(); err != nil {
			return fail(err)
		}
	}
	return Quiet(bw.Flush())
}

func init() {
	RegisterResult("text", writeResultsTSV)
	RegisterResult("json", writeResultsJSON)
	RegisterEvidence("text", writeEvidenceTSV)
}
