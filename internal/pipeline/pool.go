// internal/pipeline/pool.go
package pipeline

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type slot struct {
	res  Result
	err  error
	done chan struct{}
}

// ForEach processes inputs on the worker pool and calls visit in input
// order. Failing samples are skipped and their errors joined into the
// returned error; remaining samples still run. A visit error or context
// cancellation stops the batch and is returned as is.
func (r *Runner) ForEach(ctx context.Context, inputs []Input, visit func(Result) error) error {
	threads := r.threads
	if threads < 1 {
		threads = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]slot, len(inputs))
	for i := range slots {
		slots[i].done = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(threads)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i := range inputs {
			i := i
			g.Go(func() error {
				defer close(slots[i].done)
				if err := ctx.Err(); err != nil {
					slots[i].err = err
					return nil
				}
				slots[i].res, slots[i].err = r.ProcessSample(ctx, inputs[i])
				return nil
			})
		}
	}()

	var (
		failed []error
		stop   error
	)
	for i := range slots {
		select {
		case <-slots[i].done:
		case <-ctx.Done():
		}
		if stop = ctx.Err(); stop != nil {
			break
		}
		if err := slots[i].err; err != nil {
			var se *SampleError
			if !errors.As(err, &se) {
				stop = err
				break
			}
			r.metrics.InputError()
			r.log.Error("sample failed", "sample", inputs[i].Name, "err", se.Err)
			failed = append(failed, err)
			continue
		}
		if err := visit(slots[i].res); err != nil {
			stop = err
			break
		}
	}

	cancel()
	<-launched
	_ = g.Wait()

	if stop != nil {
		return stop
	}
	return errors.Join(failed...)
}

// Run collects ForEach results.
func (r *Runner) Run(ctx context.Context, inputs []Input) ([]Result, error) {
	out := make([]Result, 0, len(inputs))
	err := r.ForEach(ctx, inputs, func(res Result) error {
		out = append(out, res)
		return nil
	})
	return out, err
}
