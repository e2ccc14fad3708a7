package runner

import "errors"

// WorkgroupSizes are the dispatch widths exercised by the sweep mode.
var WorkgroupSizes = []uint32{64, 128, 256}

// Config describes one benchmark run: the dispatch geometry, the per-thread
// workload size and the run seed.
type Config struct {
	// OpsPerThread is the number of operations each thread executes.
	OpsPerThread uint32

	// WorkgroupSize is the number of threads per workgroup.
	WorkgroupSize uint32

	// NumWorkgroups is the number of workgroups to dispatch.
	NumWorkgroups uint32

	// WarmupIterations is the number of untimed dispatches.
	WarmupIterations int

	// MeasurementIterations is the number of timed dispatches.
	MeasurementIterations int

	// Seed derives the shared input buffer and the per-thread operands.
	Seed uint32
}

// DefaultConfig returns the default benchmark configuration.
func DefaultConfig() Config {
	return Config{
		OpsPerThread:          10_000,
		WorkgroupSize:         64,
		NumWorkgroups:         1024,
		WarmupIterations:      10,
		MeasurementIterations: 100,
		Seed:                  0x12345678,
	}
}

// WithWorkgroupSize returns a copy of c with the given workgroup size.
func (c Config) WithWorkgroupSize(size uint32) Config {
	c.WorkgroupSize = size
	return c
}

// WithOpsPerThread returns a copy of c with the given per-thread workload.
func (c Config) WithOpsPerThread(ops uint32) Config {
	c.OpsPerThread = ops
	return c
}

// WithIterations returns a copy of c with the given measurement iterations.
func (c Config) WithIterations(iterations int) Config {
	c.MeasurementIterations = iterations
	return c
}

// TotalThreads returns the number of logical threads per dispatch.
func (c Config) TotalThreads() uint64 {
	return uint64(c.WorkgroupSize) * uint64(c.NumWorkgroups)
}

// TotalOperations returns the number of operations per dispatch.
func (c Config) TotalOperations() uint64 {
	return c.TotalThreads() * uint64(c.OpsPerThread)
}

var errInvalidConfig = errors.New("runner: workgroup size, workgroup count and measurement iterations must be positive")

// Validate returns an error if the configuration cannot be dispatched.
func (c Config) Validate() error {
	if c.WorkgroupSize == 0 || c.NumWorkgroups == 0 || c.MeasurementIterations <= 0 {
		return errInvalidConfig
	}
	return nil
}
