// Package config parses and validates the cpuwatch command line.
//
// Validation never stops at the first problem: every category of error is
// checked independently and every occurrence is collected, so the operator
// sees the full list of problems in one run. Detailed diagnostics are a side
// channel written to the error stream; the returned error carries only the
// overall verdict.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/nwrenn/cpuwatch/internal/errors"
)

// Config holds the validated command-line configuration. It is immutable
// after construction. A rejected command line never exposes field values:
// ParseArgs returns the zero Config alongside the error.
type Config struct {
	// OutputPath is the destination file for utilization values. Required.
	OutputPath string
	// Interval is the number of seconds between samples. Defaults to 1.
	Interval float64
	// CPUs is the number of CPUs used to normalize summed idle time. Required.
	CPUs int
	// Samples is the moving-average window size. Defaults to 1 (no averaging).
	Samples int
	// Help reports whether usage output was requested.
	Help bool
}

const (
	// DefaultInterval is the sampling interval when -i is not given.
	DefaultInterval = 1.0
	// DefaultSamples is the window size when -n is not given.
	DefaultSamples = 1
)

// Accepted numeric literals: plain digits with an optional fractional part
// for decimals, plain digits for integers. Signs, exponents and any trailing
// characters are rejected before conversion is attempted.
var (
	decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	integerPattern = regexp.MustCompile(`^[0-9]+$`)
)

const usageText = `
usage: cpuwatch <--output=PATH> <--cpus=NUM> [options]

Options:
 -h, --help                 Displays this usage statement.
 -o <PATH>, --output=PATH   The CPU utilisation should be written to PATH.
 -c <NUM>, --cpus=NUM       Number of CPUs on the system.
 -n <NUM>, --samples=NUM    Take a moving average of NUM samples. DEFAULT=1
 -i <NUM>, --interval=NUM   Number of seconds between samples. DEFAULT=1

Examples:
cpuwatch -o output -i1 -n5 -c4
  Writes to the file 'output' every 1 second a 5*1 second moving average
  for a 4-core system.
cpuwatch -o output -i60 -c12
  Writes to the file 'output' every 60 seconds the average CPU utilisation
  for the previous 60 seconds assuming the system has 12 cores.

`

// PrintUsage writes the usage block to w.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// occurrence records one sighting of an option together with its raw value.
type occurrence struct {
	value string
}

// scanState accumulates everything the scanner discovers, in encounter order.
type scanState struct {
	outputs   []occurrence
	intervals []occurrence
	cpus      []occurrence
	samples   []occurrence

	unrecognized []string // full tokens of unknown options
	missing      []string // full tokens of options given without a value
	help         bool
}

// ParseArgs validates the raw arguments and either returns a complete Config
// or writes aggregated diagnostics plus the usage block to errWriter and
// returns an error. programName prefixes the diagnostic header. Help anywhere
// in the option list short-circuits all other processing and returns
// flag.ErrHelp after printing usage.
func ParseArgs(programName string, args []string, errWriter io.Writer) (Config, error) {
	st := scan(args)
	if st.help {
		PrintUsage(errWriter)
		return Config{Help: true}, flag.ErrHelp
	}

	cfg, problems := validate(st)
	if len(problems) > 0 {
		fmt.Fprintf(errWriter, "%s: Error(s) processing command line arguments.\n\n", programName)
		for _, p := range problems {
			fmt.Fprint(errWriter, p)
		}
		PrintUsage(errWriter)
		return Config{}, apperrors.NewConfigError("invalid command line")
	}
	return cfg, nil
}

// scan walks the arguments getopt-style. Long options accept "--opt=val" and
// "--opt val"; short options accept attached ("-i1") and detached ("-i 1")
// values, and no-arg flags may be bundled ahead of an arg-taking one. An
// arg-taking option consumes the following token unconditionally, so a
// missing value is only reported at the end of the list. "--" terminates
// option scanning and bare positional tokens are ignored.
func scan(args []string) scanState {
	var st scanState

	longDest := func(name string) (*[]occurrence, bool) {
		switch name {
		case "output":
			return &st.outputs, true
		case "interval":
			return &st.intervals, true
		case "cpus":
			return &st.cpus, true
		case "samples":
			return &st.samples, true
		}
		return nil, false
	}
	shortDest := func(c byte) (*[]occurrence, bool) {
		switch c {
		case 'o':
			return &st.outputs, true
		case 'i':
			return &st.intervals, true
		case 'c':
			return &st.cpus, true
		case 'n':
			return &st.samples, true
		}
		return nil, false
	}

	for i := 0; i < len(args); i++ {
		token := args[i]
		switch {
		case token == "--":
			return st

		case strings.HasPrefix(token, "--"):
			name, value, hasValue := strings.Cut(token[2:], "=")
			if name == "help" && !hasValue {
				st.help = true
				return st
			}
			dest, known := longDest(name)
			if !known {
				st.unrecognized = append(st.unrecognized, token)
				continue
			}
			if !hasValue {
				if i+1 >= len(args) {
					st.missing = append(st.missing, token)
					continue
				}
				i++
				value = args[i]
			}
			*dest = append(*dest, occurrence{value: value})

		case strings.HasPrefix(token, "-") && len(token) > 1:
			for j := 1; j < len(token); j++ {
				c := token[j]
				if c == 'h' {
					st.help = true
					return st
				}
				dest, known := shortDest(c)
				if !known {
					st.unrecognized = append(st.unrecognized, token)
					continue
				}
				if rest := token[j+1:]; rest != "" {
					*dest = append(*dest, occurrence{value: rest})
				} else if i+1 < len(args) {
					i++
					*dest = append(*dest, occurrence{value: args[i]})
				} else {
					st.missing = append(st.missing, token)
				}
				break
			}

		default:
			// Positional argument; getopt permutes these away and the
			// original ignores them.
		}
	}
	return st
}

// validate checks every error category independently and returns the
// diagnostic lines in reporting order. The Config is only meaningful when no
// problems were found.
func validate(st scanState) (Config, []string) {
	var problems []string

	if n := len(st.unrecognized); n > 0 {
		problems = append(problems, fmt.Sprintf("%d option%s not recognised: %s\n",
			n, plural(n, " was", "s were"), quoteList(st.unrecognized)))
	}
	if n := len(st.missing); n > 0 {
		problems = append(problems, fmt.Sprintf("%d option%s given without an argument: %s\n",
			n, plural(n, " was", "s were"), quoteList(st.missing)))
	}

	problems = append(problems, countProblems("--output/-o", len(st.outputs), true)...)

	badIntervals := badDecimals(st.intervals)
	problems = append(problems, countProblems("--interval/-i", len(st.intervals), false)...)
	if len(badIntervals) > 0 {
		problems = append(problems, fmt.Sprintf(
			"--interval/-i was given improperly %d time%s: %s. The interval must be a positive number of seconds.\n",
			len(badIntervals), plural(len(badIntervals), "", "s"), quoteList(badIntervals)))
	}

	badCPUs := badIntegers(st.cpus)
	problems = append(problems, countProblems("--cpus/-c", len(st.cpus), true)...)
	if len(badCPUs) > 0 {
		problems = append(problems, fmt.Sprintf(
			"--cpus/-c was given improperly %d time%s: %s. The CPU count must be a positive integer.\n",
			len(badCPUs), plural(len(badCPUs), "", "s"), quoteList(badCPUs)))
	}

	badSamples := badIntegers(st.samples)
	problems = append(problems, countProblems("--samples/-n", len(st.samples), false)...)
	if len(badSamples) > 0 {
		problems = append(problems, fmt.Sprintf(
			"--samples/-n was given improperly %d time%s: %s. The sample count must be a positive integer.\n",
			len(badSamples), plural(len(badSamples), "", "s"), quoteList(badSamples)))
	}

	if len(problems) > 0 {
		return Config{}, problems
	}

	cfg := Config{
		OutputPath: st.outputs[0].value,
		Interval:   DefaultInterval,
		Samples:    DefaultSamples,
	}
	cfg.CPUs, _ = strconv.Atoi(st.cpus[0].value)
	if len(st.intervals) == 1 {
		cfg.Interval, _ = strconv.ParseFloat(st.intervals[0].value, 64)
	}
	if len(st.samples) == 1 {
		cfg.Samples, _ = strconv.Atoi(st.samples[0].value)
	}
	return cfg, nil
}

// countProblems reports an option given more than once, and, for required
// options, not at all.
func countProblems(name string, count int, required bool) []string {
	var problems []string
	if count > 1 {
		problems = append(problems, fmt.Sprintf("%s was given %d times (1 maximum).\n", name, count))
	}
	if required && count == 0 {
		problems = append(problems, fmt.Sprintf("%s was not given.\n", name))
	}
	return problems
}

// badDecimals returns the literals that are not positive decimal numbers.
// Zero violates the positivity invariant and is treated as malformed.
func badDecimals(occs []occurrence) []string {
	var bad []string
	for _, o := range occs {
		if !decimalPattern.MatchString(o.value) {
			bad = append(bad, o.value)
			continue
		}
		if v, err := strconv.ParseFloat(o.value, 64); err != nil || v <= 0 {
			bad = append(bad, o.value)
		}
	}
	return bad
}

// badIntegers returns the literals that are not positive integers.
func badIntegers(occs []occurrence) []string {
	var bad []string
	for _, o := range occs {
		if !integerPattern.MatchString(o.value) {
			bad = append(bad, o.value)
			continue
		}
		if v, err := strconv.Atoi(o.value); err != nil || v < 1 {
			bad = append(bad, o.value)
		}
	}
	return bad
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}

// IsHelp checks if the error signals that usage output was requested.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
