// Package resource bounds the work a batch run may have in flight: concurrent
// image jobs, the memory they hold, and blob IO throughput.
package resource
