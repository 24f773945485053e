// Package profile provides optional runtime profiling for spoodly.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag, [Modes] is empty and [Profiler.Start]
// returns a no-op, so callers never need their own build constraints.
//
// # Modes
//
// With the pprof tag, the following modes are supported:
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap memory profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/spoodly"}
//	defer p.Start().Stop()
//
// The command line exposes the same through --pprof-mode and --pprof-dir:
//
//	go build -tags pprof .
//	./spoodly --pprof-mode cpu run fib.spd
//	go tool pprof -http=: ~/.cache/spoodly/pprof/cpu.pprof
//
// Importing the package with the tag also registers the [net/http/pprof]
// handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
