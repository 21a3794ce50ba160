package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/changedfiles/internal/changes"
	"github.com/dshills/changedfiles/internal/config"
	"github.com/dshills/changedfiles/internal/gitctx"
	"github.com/dshills/changedfiles/internal/logging"
	"github.com/dshills/changedfiles/internal/output"
)

var (
	flagBase       string
	flagEcho       bool
	flagFormat     string
	flagOut        string
	flagPaths      string
	flagExclude    string
	flagIgnoreFile string
	flagGit        string
	flagVerbose    bool
)

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagBase, "base", "", "Reference to compare against when no positional reference is given")
	cmd.Flags().BoolVar(&flagEcho, "echo", false, "Print each git command to stdout before running it")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, null)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagPaths, "paths", "", "Only list paths matching these globs (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Do not list paths matching these globs (comma-separated)")
	cmd.Flags().StringVar(&flagIgnoreFile, "ignore-file", "", "Extra gitignore-style file of paths to leave out")
	cmd.Flags().StringVar(&flagGit, "git", "", "git executable to run")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log diagnostics to stderr")
}

func buildOverrides(args []string) map[string]string {
	m := make(map[string]string)
	switch {
	case len(args) > 0 && args[0] != "":
		m["base"] = args[0]
	case flagBase != "":
		m["base"] = flagBase
	}
	if flagEcho {
		m["echo"] = "true"
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagPaths != "" {
		m["include"] = flagPaths
	}
	if flagIgnoreFile != "" {
		m["ignoreFile"] = flagIgnoreFile
	}
	if flagGit != "" {
		m["git"] = flagGit
	}
	return m
}

// buildListOpts turns the effective config into lister options. The
// --exclude flag adds to the configured excludes rather than replacing them.
func buildListOpts(cfg config.Config, log logging.Logger) changes.Options {
	opts := changes.Options{
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
		IgnoreFile: cfg.IgnoreFile,
		Logger:     log,
	}
	if flagExclude != "" {
		opts.Exclude = append(append([]string{}, opts.Exclude...), config.SplitList(flagExclude)...)
	}
	return opts
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides(args))
	if err != nil {
		return err
	}
	log := logging.ForVerbosity(cmd.ErrOrStderr(), flagVerbose)

	g := gitctx.New(cfg.Git, "")
	if cfg.Echo {
		g.Echo = cmd.OutOrStdout()
	}

	lister, err := changes.New(g, buildListOpts(cfg, log))
	if err != nil {
		return err
	}

	files, err := lister.List(cmd.Context(), cfg.Base)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		exitCode = exitCodeFor(err)
		return nil
	}
	log.Debug("changed files", "ref", cfg.Base, "count", files.Size())

	if err := output.WritePathsTo(cmd.OutOrStdout(), changes.Sorted(files), cfg.Format, flagOut); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
	}
	return nil
}

// exitCodeFor propagates git's exit status, falling back to ExitRuntimeError.
func exitCodeFor(err error) int {
	if code, ok := gitctx.ExitCode(err); ok {
		return code
	}
	return ExitRuntimeError
}
