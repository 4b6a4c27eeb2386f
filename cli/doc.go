// Package cli contains the command line interface for lsexpr.
//
// # Usage
//
// Expressions given as arguments are evaluated in one session and each
// result is printed on its own line:
//
//	lsexpr 'var x is 4' 'x * 2'
//	lsexpr run -j4 -k setup.lsx checks.lsx
//	lsexpr -o json eval '{name: "demo", sizes: [1, 2]}'
//	lsexpr postfix '(3 - 5) * 12'
//
// # Configuration
//
// Flag defaults are read from the configuration file in the user
// configuration directory, itself a script in the expression language.
// Each name bound at the root frame sets the flag of the same name, with
// underscores in place of hyphens:
//
//	var log_level is "debug"
//	var indent is 4
//
// The init command writes the current flag values in this form. A JSON
// file of the same name with a ".json" suffix is also consulted.
//
// # Script Search Path
//
// Scripts passed to run that do not exist relative to the working
// directory are searched for in each --path directory and then in the
// directories listed by the LSEXPR_PATH environment variable.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lsexpr .
//
// It adds --pprof-mode, one of the modes supported by the profile package, and
// --pprof-dir, the profile output directory.
package cli
