// Package testing provides a reusable conformance test suite, benchmark
// suite and latency soak helper for holder.IPriceHolder implementations.
// Tests and benchmarks adapt to an implementation's capabilities through
// its feature flags; anything requiring concurrent use is skipped for
// single-owner implementations.
package testing
