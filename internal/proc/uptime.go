// Package proc reads the kernel's cumulative uptime counters.
package proc

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nwrenn/cpuwatch/internal/engine"
)

// DefaultUptimePath is the pseudo-file exposing the counters on Linux.
const DefaultUptimePath = "/proc/uptime"

// UptimeSource reads (uptime, idle) from a /proc/uptime-format file. The file
// is re-read in full on every call; nothing is cached or held open between
// ticks.
type UptimeSource struct {
	Path string
}

// NewUptimeSource returns a source reading from the standard location.
func NewUptimeSource() UptimeSource {
	return UptimeSource{Path: DefaultUptimePath}
}

// Sample reads one fresh counter pair. The file must start with two
// whitespace-separated real numbers: cumulative uptime seconds and cumulative
// idle CPU-seconds summed across all cores.
func (s UptimeSource) Sample() (engine.Sample, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return engine.Sample{}, err
	}

	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return engine.Sample{}, fmt.Errorf("%s: expected two fields, got %d", s.Path, len(fields))
	}

	uptime, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return engine.Sample{}, fmt.Errorf("%s: uptime: %w", s.Path, err)
	}
	idle, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return engine.Sample{}, fmt.Errorf("%s: idle: %w", s.Path, err)
	}

	return engine.Sample{Uptime: uptime, Idle: idle}, nil
}
