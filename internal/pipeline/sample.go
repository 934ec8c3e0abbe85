// internal/pipeline/sample.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"hansel/internal/config"
	"hansel/internal/matcher"
	"hansel/internal/metrics"
	"hansel/internal/qc"
	"hansel/internal/seqio"
	"hansel/internal/subtype"
)

var (
	ErrNoFiles     = errors.New("sample has no input files")
	ErrMixedFormat = errors.New("sample mixes FASTA and FASTQ inputs")
)

// Input names one sample and the files merged into it.
type Input struct {
	Name  string
	Files []string
}

// NewInput builds an Input whose name defaults to SampleName(files[0]).
func NewInput(name string, files ...string) Input {
	if name == "" && len(files) > 0 {
		name = SampleName(files[0])
	}
	return Input{Name: name, Files: files}
}

// SampleName strips directories, compression and sequence extensions.
func SampleName(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	for _, ext := range []string{".fastq", ".fq", ".fasta", ".fa", ".fna", ".fas"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// Result is a finished sample.
type Result struct {
	Record   qc.Finalized
	Evidence []matcher.Evidence
}

// SampleError ties an input failure to its sample.
type SampleError struct {
	Sample string
	Err    error
}

func (e *SampleError) Error() string { return fmt.Sprintf("sample %q: %v", e.Sample, e.Err) }
func (e *SampleError) Unwrap() error { return e.Err }

// Runner holds everything shared by the samples of one run.
type Runner struct {
	m       *matcher.Matcher
	params  config.Params
	threads int
	metrics *metrics.Metrics
	log     *slog.Logger
}

type Option func(*Runner)

// WithThreads bounds the worker pool; <1 means runtime.NumCPU().
func WithThreads(n int) Option { return func(r *Runner) { r.threads = n } }

func WithMetrics(m *metrics.Metrics) Option { return func(r *Runner) { r.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(r *Runner) { r.log = l } }

// New returns a Runner over m. m must not be modified afterwards.
func New(m *matcher.Matcher, p config.Params, opts ...Option) *Runner {
	r := &Runner{m: m, params: p, log: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ProcessSample scans every file of in, resolves the subtype and grades it.
// Reads count coverage per file; contigs count per sequence. Input errors
// produce no result.
func (r *Runner) ProcessSample(ctx context.Context, in Input) (Result, error) {
	start := time.Now()
	if len(in.Files) == 0 {
		return Result{}, &SampleError{Sample: in.Name, Err: ErrNoFiles}
	}

	c := r.m.NewCounter()
	var (
		format seqio.Format
		contig int
	)
	for fi, fn := range in.Files {
		f, err := seqio.ReadFile(ctx, fn, func(rec seqio.Record) error {
			if format == seqio.FormatUnknown {
				format = rec.Format
			} else if format != rec.Format {
				return ErrMixedFormat
			}
			src := fi
			if rec.Format == seqio.FormatFASTA {
				src = contig
				contig++
			}
			c.Add(src, rec.Seq)
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			return Result{}, &SampleError{Sample: in.Name, Err: err}
		}
		r.log.Debug("scanned input", "sample", in.Name, "file", fn, "format", f.String())
	}

	smp := subtype.Sample{Name: in.Name, Files: in.Files, Kind: subtype.Contigs}
	if format == seqio.FormatFASTQ {
		smp.Kind = subtype.Reads
	}

	s := r.m.Scheme()
	hits := c.Hits()
	res := subtype.Resolve(smp, s, hits, r.params)
	ev := hits.Evidence(s)
	fin := qc.Run(res, ev, r.params)

	r.metrics.ObserveSample(smp.Kind.String(), string(fin.QCStatus), res.NTilesMatchingAll, time.Since(start))
	r.log.Info("sample subtyped",
		"sample", in.Name,
		"subtype", fin.Subtype,
		"qc_status", fin.QCStatus,
		"tiles", res.NTilesMatchingAll,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return Result{Record: fin, Evidence: ev}, nil
}
