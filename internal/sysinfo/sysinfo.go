// Package sysinfo provides best-effort hardware detection used for startup
// sanity checks.
package sysinfo

import "github.com/shirou/gopsutil/v4/cpu"

// LogicalCPUs returns the number of logical CPUs visible to the process.
// Detection is advisory only: the --cpus flag remains authoritative for the
// idle-time normalization, and callers treat an error here as non-fatal.
func LogicalCPUs() (int, error) {
	return cpu.Counts(true)
}
