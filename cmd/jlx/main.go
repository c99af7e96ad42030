/*
jlx is a console front end for the Julia syntax core.

Usage is

	jlx [global flags] <command> [flags] <file>...

Commands:

	tokens    print the token stream of a file
	parse     print syntax trees
	check     print diagnostics, optionally validate trees and check layout style
	outline   list definitions
	docs      print docstrings as Markdown or HTML
	watch     re-check a file each time it changes
	grammar   check a grammar definition against a (multi-sample) source file

Global settings are read from flags, JLX_* environment variables and an optional
.jlx.yaml (or .jlx.toml) file in the current or home directory.
File name "-" reads standard input.

Exit codes:

	1: command failed (bad arguments, I/O error, invalid grammar)
	2: input has errors
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava12/jlx/julia"
	"github.com/ava12/jlx/langdef"
)

const (
	exitFailure = 1
	exitErrors  = 2
)

// errInput marks a command that ran successfully over input having errors.
var errInput = errors.New("input has errors")

type app struct {
	v      *viper.Viper
	log    zerolog.Logger
	lang   *julia.Language
	colors *palette
}

func main() {
	root := newRootCommand()
	if e := root.Execute(); e != nil {
		if errors.Is(e, errInput) {
			os.Exit(exitErrors)
		}
		fmt.Fprintln(os.Stderr, newPalette(os.Stderr, false).failure(e.Error()))
		os.Exit(exitFailure)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "jlx",
		Short:         "Julia syntax tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default is .jlx.yaml in current or home directory)")
	pf.String("cache-dir", "", "compiled grammar cache directory, empty disables the cache")
	pf.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	pf.Bool("no-color", false, "disable colored output")
	pf.Int("max-depth", 0, "maximum node nesting, 0 means the default")
	pf.IntP("jobs", "j", runtime.NumCPU(), "number of files parsed concurrently")
	_ = a.v.BindPFlags(pf)

	root.AddCommand(
		a.tokensCommand(),
		a.parseCommand(),
		a.checkCommand(),
		a.outlineCommand(),
		a.docsCommand(),
		a.watchCommand(),
		a.grammarCommand(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if e := a.readConfig(); e != nil {
		return e
	}

	level, e := zerolog.ParseLevel(a.v.GetString("log-level"))
	if e != nil {
		return e
	}

	noColor := a.v.GetBool("no-color")
	a.colors = newPalette(cmd.OutOrStdout(), noColor)
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: noColor || !isTerminal(cmd.ErrOrStderr())}).
		Level(level).With().Timestamp().Str("command", cmd.Name()).Logger()
	return nil
}

func (a *app) readConfig() error {
	a.v.SetEnvPrefix("JLX")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if name := a.v.GetString("config"); name != "" {
		name, e := homedir.Expand(name)
		if e != nil {
			return e
		}
		a.v.SetConfigFile(name)
		return a.v.ReadInConfig()
	}

	a.v.SetConfigName(".jlx")
	a.v.AddConfigPath(".")
	if home, e := homedir.Dir(); e == nil {
		a.v.AddConfigPath(home)
	}
	e := a.v.ReadInConfig()
	var nf viper.ConfigFileNotFoundError
	if errors.As(e, &nf) {
		return nil
	}
	return e
}

// language compiles Julia grammars on first use.
func (a *app) language() (*julia.Language, error) {
	if a.lang != nil {
		return a.lang, nil
	}

	var cache *langdef.Cache
	if dir := a.v.GetString("cache-dir"); dir != "" {
		dir, e := homedir.Expand(dir)
		if e != nil {
			return nil, e
		}
		cache = langdef.NewCache(dir, a.log)
	}

	lang, e := julia.NewLanguage(
		julia.WithLogger(a.log),
		julia.WithCache(cache),
		julia.WithMaxDepth(a.v.GetInt("max-depth")),
	)
	if e != nil {
		return nil, e
	}

	a.lang = lang
	return lang, nil
}

func (a *app) jobs() int {
	if n := a.v.GetInt("jobs"); n > 0 {
		return n
	}
	return 1
}

func isTerminal(w io.Writer) bool {
	f, is := w.(*os.File)
	return is && isTerminalFd(f.Fd())
}
