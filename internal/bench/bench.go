// Package bench times repeated invocations of a provisioned entry point.
// It records raw durations only; interpreting them is left to the caller.
package bench

import (
	"context"
	"fmt"
	"time"
)

// Spec describes one timed run.
type Spec struct {
	Fixture    string
	Backend    string
	Entry      string
	Args       []string
	Warmup     int
	Iterations int
}

// Result holds the timings of one run.
type Result struct {
	Fixture        string        `json:"fixture" yaml:"fixture"`
	Backend        string        `json:"backend" yaml:"backend"`
	Entry          string        `json:"entry" yaml:"entry"`
	Iterations     int           `json:"iterations" yaml:"iterations"`
	Output         string        `json:"output" yaml:"output"`
	RunDurationsNs []int64       `json:"run_durations_ns" yaml:"run_durations_ns"`
	Total          time.Duration `json:"total" yaml:"total"`
	AvgNs          int64         `json:"avg_ns" yaml:"avg_ns"`
	MinNs          int64         `json:"min_ns" yaml:"min_ns"`
	MaxNs          int64         `json:"max_ns" yaml:"max_ns"`
}

// InvokeFunc runs the entry point once and returns its output.
type InvokeFunc func(ctx context.Context) (string, error)

// Run calls fn spec.Warmup times untimed, then spec.Iterations times timed.
// The first error stops the run.
func Run(ctx context.Context, spec Spec, fn InvokeFunc) (*Result, error) {
	if spec.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be at least 1, got %d", spec.Iterations)
	}

	for i := 0; i < spec.Warmup; i++ {
		if _, err := fn(ctx); err != nil {
			return nil, fmt.Errorf("warmup iteration %d: %w", i+1, err)
		}
	}

	result := &Result{
		Fixture:        spec.Fixture,
		Backend:        spec.Backend,
		Entry:          spec.Entry,
		RunDurationsNs: make([]int64, 0, spec.Iterations),
	}

	for i := 0; i < spec.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		out, err := fn(ctx)
		elapsed := time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i+1, err)
		}

		result.Output = out
		result.record(elapsed)
	}

	return result, nil
}

func (r *Result) record(d time.Duration) {
	ns := d.Nanoseconds()
	if r.Iterations == 0 || ns < r.MinNs {
		r.MinNs = ns
	}
	if ns > r.MaxNs {
		r.MaxNs = ns
	}
	r.Iterations++
	r.Total += d
	r.RunDurationsNs = append(r.RunDurationsNs, ns)
	r.AvgNs = r.Total.Nanoseconds() / int64(r.Iterations)
}

// Avg returns the mean iteration time.
func (r *Result) Avg() time.Duration {
	return time.Duration(r.AvgNs)
}
