// Package metrics measures particle state at snapshot time.
//
// Every [Metric] is a [dem.Observer]; register it on a simulator and read
// Value after the run.
package metrics
