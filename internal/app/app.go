// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/uuid"

	"hansel/internal/cli"
	"hansel/internal/config"
	"hansel/internal/logging"
	"hansel/internal/matcher"
	"hansel/internal/metrics"
	"hansel/internal/pipeline"
	"hansel/internal/qc"
	"hansel/internal/scheme"
	"hansel/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitRuntime   = 3
	ExitCancelled = 130
)

// RunContext parses argv, subtypes every sample and returns the process
// exit code. Results go to stdout; diagnostics and logs go to stderr.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := ExitOK
	cmd := cli.NewCommand(func(ctx context.Context, o cli.Options) error {
		code = run(ctx, o, stdout, stderr)
		return nil
	})
	cmd.SetArgs(argv)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if len(argv) == 0 {
		_ = cmd.Help()
		return ExitOK
	}
	if err := cmd.ExecuteContext(parent); err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		if cli.IsUsage(err) {
			_, _ = fmt.Fprint(stderr, cmd.UsageString())
			return ExitUsage
		}
		return ExitRuntime
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func run(ctx context.Context, o cli.Options, stdout, stderr io.Writer) int {
	level, _ := logging.ParseLevel(o.LogLevel)
	logging.Init(level, o.LogFormat, stderr)
	runID := uuid.NewString()
	log := logging.New("app").With("run_id", runID)

	fail := func(err error, code int) int {
		if errors.Is(err, context.Canceled) {
			return ExitCancelled
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return code
	}

	s, err := scheme.Load(ctx, o.SchemeFile, o.SchemeMeta)
	if err != nil {
		return fail(err, ExitUsage)
	}
	params, err := config.Build(s.Defaults, o.ConfigFile, o.Overrides...)
	if err != nil {
		return fail(err, ExitUsage)
	}
	m := matcher.New(s)
	log.Info("scheme loaded",
		"scheme", s.Name,
		"version", s.Version,
		"tiles", len(s.Signatures),
		"automaton_states", m.States(),
	)

	thr := o.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	met := metrics.New()
	runner := pipeline.New(m, params,
		pipeline.WithThreads(thr),
		pipeline.WithMetrics(met),
		pipeline.WithLogger(logging.New("pipeline").With("run_id", runID)),
	)

	inputs := make([]pipeline.Input, len(o.Samples))
	for i, sa := range o.Samples {
		name := sa.Name
		if o.SampleName != "" {
			name = o.SampleName
		}
		inputs[i] = pipeline.NewInput(name, sa.Files...)
	}

	var (
		evCh   chan<- writers.SampleEvidence
		evErr  <-chan error
		evFile *os.File
	)
	if o.EvidenceFile != "" {
		evFile, err = os.Create(o.EvidenceFile)
		if err != nil {
			return fail(err, ExitRuntime)
		}
		defer func() { _ = evFile.Close() }()
		evCh, evErr = writers.StartEvidenceWriter(evFile, o.EvidenceFormat, writers.Options{Header: o.Header}, thr*4)
	}

	outw := bufio.NewWriter(stdout)
	resCh, resErr := writers.StartResultWriter(outw, o.Output, writers.Options{Header: o.Header, RunID: runID}, thr*4)

	anyFail := false
	perr := runner.ForEach(ctx, inputs, func(r pipeline.Result) error {
		if r.Record.QCStatus == qc.FAIL {
			anyFail = true
		}
		select {
		case resCh <- r.Record:
		case <-ctx.Done():
			return ctx.Err()
		}
		if evCh != nil {
			select {
			case evCh <- writers.SampleEvidence{Sample: r.Record.Sample.Name, Rows: r.Evidence}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	close(resCh)
	werr := <-resErr
	if werr == nil {
		werr = writers.Quiet(outw.Flush())
	}
	if evCh != nil {
		close(evCh)
		if err := <-evErr; err != nil && werr == nil {
			werr = fmt.Errorf("evidence: %w", err)
		}
	}

	if o.MetricsFile != "" {
		if err := met.WriteTextfile(o.MetricsFile); err != nil {
			log.Warn("metrics textfile not written", "path", o.MetricsFile, "err", err)
		}
	}

	switch {
	case errors.Is(perr, context.Canceled):
		return ExitCancelled
	case werr != nil:
		return fail(werr, ExitRuntime)
	case perr != nil:
		return fail(perr, ExitRuntime)
	case anyFail && o.FailExitCode > 0:
		return o.FailExitCode
	}
	return ExitOK
}
