// internal/cli/options.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hansel/internal/config"
	"hansel/internal/logging"
	"hansel/internal/version"
	"hansel/internal/writers"
)

// SampleArg is one positional sample: NAME=FILE[,FILE...] or FILE[,FILE...].
type SampleArg struct {
	Name  string
	Files []string
}

// Options holds all CLI flags and arguments.
type Options struct {
	// Scheme & parameters
	SchemeFile string
	SchemeMeta string
	ConfigFile string
	Overrides  []config.Option // only flags the user actually set

	Samples    []SampleArg
	SampleName string

	// Performance
	Threads int

	// Output
	Output         string
	Header         bool // true unless --no-header
	EvidenceFile   string
	EvidenceFormat string
	MetricsFile    string
	FailExitCode   int

	// Logging
	LogLevel  string
	LogFormat string
}

// UsageError marks a bad command line; the caller prints usage and exits 2.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErr(format string, a ...any) error { return &UsageError{Err: fmt.Errorf(format, a...)} }

// NewCommand returns the root command. run receives validated options.
func NewCommand(run func(ctx context.Context, o Options) error) *cobra.Command {
	var (
		opt      Options
		noHeader bool
		q        qcFlags
	)
	cmd := &cobra.Command{
		Use:   "hansel [flags] SAMPLE...",
		Short: "hansel: hierarchical subtyping from k-mer tiles",
		Long: `hansel: hierarchical subtyping from k-mer tiles

Each SAMPLE is FILE[,FILE...] or NAME=FILE[,FILE...]; comma-joined files
(e.g. paired reads) are merged into one sample. FASTA input is treated as
contigs and FASTQ as reads; gzip is detected automatically and '-' reads
stdin.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErr("at least one sample is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opt.Header = !noHeader
			opt.Overrides = q.options(cmd.Flags())
			samples, err := ParseSamples(args)
			if err != nil {
				return err
			}
			opt.Samples = samples
			if err := opt.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), opt)
		},
	}
	cmd.SetVersionTemplate("hansel version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return &UsageError{Err: err} })

	f := cmd.Flags()
	f.SortFlags = false

	// Scheme & parameters
	f.StringVarP(&opt.SchemeFile, "scheme", "s", "", "tile scheme FASTA [*]")
	f.StringVarP(&opt.SchemeMeta, "scheme-metadata", "m", "", "scheme metadata YAML (name, version, defaults, expected counts)")
	f.StringVarP(&opt.ConfigFile, "config", "c", "", "YAML file with QC parameters")
	q.register(f)

	f.StringVarP(&opt.SampleName, "sample-name", "n", "", "override the name of a single sample")

	// Performance
	f.IntVarP(&opt.Threads, "threads", "t", 0, "samples processed in parallel (0 = all CPUs)")

	// Output
	f.StringVarP(&opt.Output, "output", "o", "text", "results format: "+strings.Join(writers.ResultFormats(), " | "))
	f.BoolVar(&noHeader, "no-header", false, "suppress header line in text/TSV")
	f.StringVar(&opt.EvidenceFile, "evidence", "", "write the per-tile evidence table to this file")
	f.StringVar(&opt.EvidenceFormat, "evidence-format", "text", "evidence format: "+strings.Join(writers.EvidenceFormats(), " | "))
	f.StringVar(&opt.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics here at exit")
	f.IntVar(&opt.FailExitCode, "fail-exit-code", 0, "exit code when any sample's QC status is FAIL")

	// Logging
	f.StringVar(&opt.LogLevel, "log-level", "info", "debug | info | warn | error")
	f.StringVar(&opt.LogFormat, "log-format", "auto", "text | json | auto")

	return cmd
}

// Validate checks option combinations that flag parsing cannot.
func (o Options) Validate() error {
	switch {
	case o.SchemeFile == "":
		return usageErr("--scheme is required")
	case o.Threads < 0:
		return usageErr("--threads must be ≥ 0")
	case o.FailExitCode < 0 || o.FailExitCode > 125:
		return usageErr("--fail-exit-code must be within 0..125")
	case !slices.Contains(writers.ResultFormats(), o.Output):
		return usageErr("invalid --output %q", o.Output)
	case !slices.Contains(writers.EvidenceFormats(), o.EvidenceFormat):
		return usageErr("invalid --evidence-format %q", o.EvidenceFormat)
	case o.LogFormat != "text" && o.LogFormat != "json" && o.LogFormat != "auto":
		return usageErr("invalid --log-format %q", o.LogFormat)
	case o.SampleName != "" && len(o.Samples) != 1:
		return usageErr("--sample-name needs exactly one sample")
	}
	if _, err := logging.ParseLevel(o.LogLevel); err != nil {
		return usageErr("invalid --log-level %q", o.LogLevel)
	}
	stdin := 0
	for _, s := range o.Samples {
		for _, fn := range s.Files {
			if fn == "-" {
				stdin++
			}
		}
	}
	if stdin > 1 {
		return usageErr("stdin ('-') can be used by only one sample file")
	}
	return nil
}

// ParseSamples splits positional sample arguments.
func ParseSamples(args []string) ([]SampleArg, error) {
	out := make([]SampleArg, 0, len(args))
	seen := map[string]bool{}
	for _, a := range args {
		var s SampleArg
		arg := a
		if name, rest, ok := strings.Cut(a, "="); ok {
			s.Name = name
			arg = rest
			if name == "" {
				return nil, usageErr("sample %q: empty name", a)
			}
			if seen[name] {
				return nil, usageErr("duplicate sample name %q", name)
			}
			seen[name] = true
		}
		for _, fn := range strings.Split(arg, ",") {
			if fn == "" {
				return nil, usageErr("sample %q: empty file name", a)
			}
			s.Files = append(s.Files, fn)
		}
		out = append(out, s)
	}
	return out, nil
}

// IsUsage reports whether err came from the command line itself.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// qcFlags are the thresholds that override config sources only when set.
type qcFlags struct {
	lowCovWarn, lowCovFail, maxIntermediate, maxMissing float64
	minFreq, maxFreq                                    int
	schemeVersion                                       string
}

func (q *qcFlags) register(f *pflag.FlagSet) {
	d := config.Defaults()
	f.Float64Var(&q.lowCovWarn, "low-coverage-warning", d.LowCoverageWarning, "mean tile coverage below which reads get a WARNING")
	f.Float64Var(&q.lowCovFail, "low-coverage-depth-fail", d.LowCoverageDepthFail, "tile depth used for FAIL verdicts on reads")
	f.Float64Var(&q.maxIntermediate, "max-intermediate-tiles-ratio", d.MaxIntermediateTilesRatio, "missing subtype tile fraction before an intermediate WARNING")
	f.Float64Var(&q.maxMissing, "max-missing-tiles", d.MaxMissingTiles, "missing tile fraction before FAIL")
	f.IntVar(&q.minFreq, "min-tile-freq", d.MinTileFreq, "minimum read hits for a tile to count")
	f.IntVar(&q.maxFreq, "max-tile-freq", d.MaxTileFreq, "maximum read hits for a tile to count (0 = unbounded)")
	f.StringVar(&q.schemeVersion, "scheme-version", "", "override the reported scheme version")
}

func (q *qcFlags) options(f *pflag.FlagSet) []config.Option {
	var opts []config.Option
	add := func(name string, o config.Option) {
		if f.Changed(name) {
			opts = append(opts, o)
		}
	}
	add("low-coverage-warning", config.WithLowCoverageWarning(q.lowCovWarn))
	add("low-coverage-depth-fail", config.WithLowCoverageDepthFail(q.lowCovFail))
	add("max-intermediate-tiles-ratio", config.WithMaxIntermediateTilesRatio(q.maxIntermediate))
	add("max-missing-tiles", config.WithMaxMissingTiles(q.maxMissing))
	add("min-tile-freq", config.WithMinTileFreq(q.minFreq))
	add("max-tile-freq", config.WithMaxTileFreq(q.maxFreq))
	add("scheme-version", config.WithSchemeVersion(q.schemeVersion))
	return opts
}
