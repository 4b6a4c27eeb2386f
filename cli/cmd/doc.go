// Package cmd implements the lsexpr subcommands: eval, run, repl, lex,
// postfix and init.
//
// Commands receive their output settings and script search path through
// the [context.Context] passed to Run; see [WithOutput], [WithSearchPath]
// and [WithContext].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"
)
