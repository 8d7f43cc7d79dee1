package format

import "fmt"

// Percent formats a utilization value to one decimal place with a trailing
// percent sign and no newline, e.g. "23.7%". The value is written exactly as
// computed: readings outside [0, 100] are not clamped, so consumers polling
// the output file may observe values like "-0.3%" or "104.2%" when the
// underlying counters are inconsistent.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
