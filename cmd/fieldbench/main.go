// fieldbench is a CLI to benchmark fixed-width field arithmetic kernels.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/consensys/fieldbench/kernel"
	"github.com/consensys/fieldbench/logger"
	"github.com/consensys/fieldbench/runner"
)

var (
	fOperations    []string
	fOpsPerThread  uint32
	fWorkgroupSize uint32
	fNumWorkgroups uint32
	fWarmup        int
	fIterations    int
	fSeed          uint32
	fSweep         bool
	fJSONPath      string
	fCBORPath      string
)

var rootCmd = &cobra.Command{
	Use:   "fieldbench",
	Short: "benchmark fixed-width modular arithmetic kernels",
	Long: `fieldbench dispatches deterministic per-thread arithmetic kernels
(BN254 Montgomery and Mersenne31 field operations, fixed-width big-integer
primitives) and reports their throughput.`,
	RunE: cmdRun,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list available operations",
	Run: func(cmd *cobra.Command, args []string) {
		for _, op := range kernel.AllOps() {
			fmt.Printf("%-20s %s\n", op.Name(), op.Description())
		}
	},
}

func init() {
	rootCmd.Flags().StringSliceVar(&fOperations, "operations", nil, "operations to run (default all, see 'fieldbench list')")
	rootCmd.Flags().Uint32Var(&fOpsPerThread, "ops-per-thread", 10_000, "operations per thread")
	rootCmd.Flags().Uint32Var(&fWorkgroupSize, "workgroup-size", 64, "threads per workgroup")
	rootCmd.Flags().Uint32Var(&fNumWorkgroups, "workgroups", 1024, "number of workgroups")
	rootCmd.Flags().IntVar(&fWarmup, "warmup", 10, "untimed warmup dispatches")
	rootCmd.Flags().IntVar(&fIterations, "iterations", 100, "timed measurement dispatches")
	rootCmd.Flags().Uint32Var(&fSeed, "seed", 0x12345678, "input data seed")
	rootCmd.Flags().BoolVar(&fSweep, "sweep", false, "sweep all workgroup sizes")
	rootCmd.Flags().StringVar(&fJSONPath, "json", "", "write the report as JSON to the given path")
	rootCmd.Flags().StringVar(&fCBORPath, "cbor", "", "write the report as CBOR to the given path")
	rootCmd.AddCommand(listCmd)
}

func cmdRun(cmd *cobra.Command, args []string) error {
	ops, err := selectedOps()
	if err != nil {
		return err
	}

	cfg := runner.Config{
		OpsPerThread:          fOpsPerThread,
		WorkgroupSize:         fWorkgroupSize,
		NumWorkgroups:         fNumWorkgroups,
		WarmupIterations:      fWarmup,
		MeasurementIterations: fIterations,
		Seed:                  fSeed,
	}

	report := runner.NewReport()
	sizes := []uint32{cfg.WorkgroupSize}
	if fSweep {
		sizes = runner.WorkgroupSizes
	}
	for _, size := range sizes {
		r := runner.New(cfg.WithWorkgroupSize(size))
		partial, err := r.RunAll(ops)
		if err != nil {
			return err
		}
		report.Results = append(report.Results, partial.Results...)
	}

	printSummary(&report)

	if fJSONPath != "" {
		if err := writeReport(fJSONPath, report.WriteJSON); err != nil {
			return err
		}
	}
	if fCBORPath != "" {
		if err := writeReport(fCBORPath, report.WriteCBOR); err != nil {
			return err
		}
	}
	return nil
}

func selectedOps() ([]kernel.Op, error) {
	if len(fOperations) == 0 {
		return kernel.AllOps(), nil
	}
	ops := make([]kernel.Op, 0, len(fOperations))
	for _, name := range fOperations {
		op, err := kernel.OpFromName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func printSummary(report *runner.Report) {
	fmt.Printf("%-20s %10s %12s %12s %10s\n", "operation", "wg size", "min (ms)", "mean (ms)", "GOP/s")
	for i := range report.Results {
		r := &report.Results[i]
		fmt.Printf("%-20s %10d %12.3f %12.3f %10.3f\n",
			r.Operation, r.WorkgroupSize, r.MinMs(), r.MeanMs(), r.GopsPerSecond)
	}
}

func writeReport(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.Logger()
		log.Error().Err(err).Msg("fieldbench failed")
		os.Exit(1)
	}
}
