// Package profile provides optional runtime profiling for lsexpr.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// when the binary is built with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag every [Profiler] is a no-op and [Modes] is empty.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	s := profile.Profiler{Mode: "cpu", Path: dir}.Start()
//	defer s.Stop()
//
// Output files are named after the mode (cpu.pprof, mem.pprof, trace.out)
// and may be inspected with "go tool pprof":
//
//	lsexpr --pprof-mode cpu run bench.lsx
//	go tool pprof -http=: ~/.cache/lsexpr/pprof/cpu.pprof
//
// The tagged build also imports [net/http/pprof], registering its handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
