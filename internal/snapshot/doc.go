// Package snapshot reads and writes the flat particle snapshot stream.
//
// Each snapshot is a header line followed by one line per particle:
//
//	<n> <t> 0 0 0 1 1 1
//	<rx> <ry> <rz> <vx> <vy> <vz> <radius> 0 0 0 0 0 0 0
//
// The six trailing header fields are reserved for domain bounds and the
// seven trailing particle fields for future attributes; both are written
// as fixed placeholders.
package snapshot
