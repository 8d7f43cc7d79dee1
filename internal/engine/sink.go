package engine

import (
	"os"

	"github.com/nwrenn/cpuwatch/internal/format"
)

// FileSink writes each utilization value to a file, truncating any prior
// content. The file is opened, written and closed within a single call so no
// descriptor is held between ticks.
type FileSink struct {
	Path string
}

// Write replaces the file content with the formatted value.
func (s FileSink) Write(value float64) error {
	return os.WriteFile(s.Path, []byte(format.Percent(value)), 0o644)
}
