package runner

import (
	"encoding/json"
	"io"
	"math"
	"runtime"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/consensys/fieldbench/kernel"
)

// Result holds the timing statistics of a single benchmark run.
type Result struct {
	Operation       string  `json:"operation" cbor:"operation"`
	WorkgroupSize   uint32  `json:"workgroup_size" cbor:"workgroup_size"`
	TotalThreads    uint64  `json:"total_threads" cbor:"total_threads"`
	OpsPerThread    uint32  `json:"ops_per_thread" cbor:"ops_per_thread"`
	TotalOperations uint64  `json:"total_operations" cbor:"total_operations"`
	MinNs           uint64  `json:"min_ns" cbor:"min_ns"`
	MaxNs           uint64  `json:"max_ns" cbor:"max_ns"`
	MeanNs          float64 `json:"mean_ns" cbor:"mean_ns"`
	StdDevNs        float64 `json:"std_dev_ns" cbor:"std_dev_ns"`

	// GopsPerSecond is derived from the minimum (best-case) dispatch time.
	GopsPerSecond float64 `json:"gops_per_second" cbor:"gops_per_second"`

	// Checksum is the XOR of every thread's output word on the last
	// dispatch. It pins down determinism, it is not a performance metric.
	Checksum uint32 `json:"checksum" cbor:"checksum"`
}

// newResult computes the statistics of a run from its dispatch timings.
func newResult(op kernel.Op, cfg Config, timings []time.Duration, checksum uint32) Result {
	minNs := uint64(math.MaxUint64)
	maxNs := uint64(0)
	var sum uint64
	for _, d := range timings {
		ns := uint64(d.Nanoseconds())
		if ns < minNs {
			minNs = ns
		}
		if ns > maxNs {
			maxNs = ns
		}
		sum += ns
	}
	n := len(timings)
	if n == 0 {
		minNs = 0
	}
	mean := float64(sum) / math.Max(float64(n), 1)

	var variance float64
	for _, d := range timings {
		delta := float64(d.Nanoseconds()) - mean
		variance += delta * delta
	}
	variance /= math.Max(float64(n), 1)

	totalOps := cfg.TotalOperations()
	var gops float64
	if minNs > 0 {
		gops = float64(totalOps) / (float64(minNs) / 1e9) / 1e9
	}

	return Result{
		Operation:       op.Name(),
		WorkgroupSize:   cfg.WorkgroupSize,
		TotalThreads:    cfg.TotalThreads(),
		OpsPerThread:    cfg.OpsPerThread,
		TotalOperations: totalOps,
		MinNs:           minNs,
		MaxNs:           maxNs,
		MeanNs:          mean,
		StdDevNs:        math.Sqrt(variance),
		GopsPerSecond:   gops,
		Checksum:        checksum,
	}
}

// MinMs returns the minimum dispatch time in milliseconds.
func (r *Result) MinMs() float64 {
	return float64(r.MinNs) / 1e6
}

// MeanMs returns the mean dispatch time in milliseconds.
func (r *Result) MeanMs() float64 {
	return r.MeanNs / 1e6
}

// Report is a collection of benchmark results with host information.
type Report struct {
	HostOS   string `json:"host_os" cbor:"host_os"`
	HostArch string `json:"host_arch" cbor:"host_arch"`
	NumCPU   int    `json:"num_cpu" cbor:"num_cpu"`

	Results []Result `json:"results" cbor:"results"`

	// Timestamp is the report creation time in Unix seconds.
	Timestamp string `json:"timestamp" cbor:"timestamp"`
}

// NewReport returns an empty report stamped with the current host and time.
func NewReport() Report {
	return Report{
		HostOS:    runtime.GOOS,
		HostArch:  runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		Timestamp: strconv.FormatInt(time.Now().Unix(), 10),
	}
}

// AddResult appends a result to the report.
func (r *Report) AddResult(result Result) {
	r.Results = append(r.Results, result)
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReadJSON decodes a report previously written with WriteJSON.
func ReadJSON(r io.Reader) (Report, error) {
	var report Report
	err := json.NewDecoder(r).Decode(&report)
	return report, err
}

// WriteCBOR writes the report in CBOR.
func (r *Report) WriteCBOR(w io.Writer) error {
	return cbor.NewEncoder(w).Encode(r)
}

// ReadCBOR decodes a report previously written with WriteCBOR.
func ReadCBOR(r io.Reader) (Report, error) {
	var report Report
	err := cbor.NewDecoder(r).Decode(&report)
	return report, err
}
