package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lsexpr/cli/cmd"
	"github.com/ardnew/lsexpr/pkg"
)

// CLI is the top-level command-line interface for lsexpr.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Output string   `default:"native" enum:"${outputEnum}" help:"Result format (${enum})."                   short:"o"`
	Indent int      `default:"2"                           help:"Indent width for json and yaml output."`
	Path   []string `                                      help:"Directories searched for scripts before ${pathVar}." type:"path"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate expressions"`
	Run  cmd.Run  `cmd:"" help:"Evaluate script files"`
	Repl cmd.Repl `cmd:"" help:"Start an interactive session"`

	Lex     cmd.Lex     `cmd:"" group:"inspect" help:"Print the token stream of source text"`
	Postfix cmd.Postfix `cmd:"" group:"inspect" help:"Print the postfix form of expressions"`
}

// Run executes the lsexpr CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version,
		"pathVar":            "$" + pkg.PathVar,
		"outputEnum":         joinEnum(cmd.Formats...),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that parse errors are
	// reported with the requested format regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{
			cli.Log.group(),
			cli.Pprof.group(),
			{Key: "inspect", Title: "Inspection"},
		}),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOutput(ctx, cmd.Output{
		W:      os.Stdout,
		Format: cli.Output,
		Indent: cli.Indent,
	})
	ctx = cmd.WithSearchPath(ctx, searchPath(os.Getenv(pkg.PathVar), cli.Path...))

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
