// Package runner dispatches benchmark kernels across logical threads and
// reports timing statistics.
//
// The execution model mirrors a data-parallel compute dispatch: every logical
// thread runs the identical kernel body independently, sharing only the
// read-only input buffer and parameter record, and writes one word to its own
// output slot. Workgroups map to goroutines; ordering between threads is
// irrelevant since there is no cross-thread dependency.
package runner

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/fieldbench/kernel"
	"github.com/consensys/fieldbench/logger"
)

// Runner executes benchmark runs for a fixed configuration.
type Runner struct {
	cfg Config
	log zerolog.Logger
}

// New returns a Runner for the given configuration.
func New(cfg Config) *Runner {
	return &Runner{
		cfg: cfg,
		log: logger.Logger().With().Str("component", "runner").Logger(),
	}
}

// Run executes warmup and measurement dispatches of one operation and
// returns the aggregated result.
func (r *Runner) Run(op kernel.Op) (Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return Result{}, err
	}
	k := op.Kernel()
	if k == nil {
		return Result{}, fmt.Errorf("runner: no kernel for operation %q", op.Name())
	}

	inputs := kernel.Inputs(r.cfg.Seed)
	params := kernel.Params{
		Iterations: r.cfg.OpsPerThread,
		Seed:       r.cfg.Seed,
	}
	out := make([]uint32, r.cfg.TotalThreads())

	r.log.Info().
		Str("operation", op.Name()).
		Uint32("workgroup_size", r.cfg.WorkgroupSize).
		Uint32("workgroups", r.cfg.NumWorkgroups).
		Uint32("ops_per_thread", r.cfg.OpsPerThread).
		Msg("running benchmark")

	for i := 0; i < r.cfg.WarmupIterations; i++ {
		r.dispatch(k, &inputs, &params, out)
	}

	timings := make([]time.Duration, 0, r.cfg.MeasurementIterations)
	for i := 0; i < r.cfg.MeasurementIterations; i++ {
		start := time.Now()
		r.dispatch(k, &inputs, &params, out)
		timings = append(timings, time.Since(start))
	}

	var checksum uint32
	for _, w := range out {
		checksum ^= w
	}

	result := newResult(op, r.cfg, timings, checksum)
	r.log.Info().
		Str("operation", op.Name()).
		Float64("min_ms", result.MinMs()).
		Float64("gops", result.GopsPerSecond).
		Uint32("checksum", checksum).
		Msg("benchmark done")
	return result, nil
}

// RunAll executes every given operation and collects the results in a report.
func (r *Runner) RunAll(ops []kernel.Op) (Report, error) {
	report := NewReport()
	for _, op := range ops {
		result, err := r.Run(op)
		if err != nil {
			return report, fmt.Errorf("running %s: %w", op.Name(), err)
		}
		report.AddResult(result)
	}
	return report, nil
}

// dispatch runs one full pass: every logical thread executes the kernel once
// and writes its output slot. Workgroups are fanned out over the host CPUs.
func (r *Runner) dispatch(k kernel.Func, inputs *[kernel.InputWords]uint32, params *kernel.Params, out []uint32) {
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for wg := uint32(0); wg < r.cfg.NumWorkgroups; wg++ {
		base := uint64(wg) * uint64(r.cfg.WorkgroupSize)
		g.Go(func() error {
			for l := uint32(0); l < r.cfg.WorkgroupSize; l++ {
				tid := uint32(base) + l
				out[base+uint64(l)] = k(tid, inputs, params)
			}
			return nil
		})
	}
	_ = g.Wait() // kernels are total, no error can occur
}
