package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/julia"
	"github.com/ava12/jlx/tree"
)

type checkOptions struct {
	strict, style, quiet bool
}

func (a *app) checkCommand() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Print diagnostics",
		Long: "Print lexical and syntax diagnostics of files.\n" +
			"--style adds layout warnings, --strict validates tree invariants and treats warnings as errors.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, e := a.parseFiles(cmd.Context(), args, cmd.InOrStdin())
			if e != nil {
				return e
			}

			failed := false
			for _, res := range results {
				cnt, e := a.report(cmd.OutOrStdout(), res, opts)
				if e != nil {
					return e
				}
				failed = failed || cnt > 0
			}

			if failed {
				return errInput
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&opts.strict, "strict", false, "validate tree invariants, treat warnings as errors")
	fs.BoolVar(&opts.style, "style", false, "check layout style")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "print nothing for files without diagnostics")
	return cmd
}

// report prints diagnostics of a parsed file and returns the number of failures.
// A broken tree invariant is an internal error.
func (a *app) report(w io.Writer, res *julia.Result, opts checkOptions) (int, error) {
	if opts.strict {
		if e := tree.Validate(res.Root, res.Source); e != nil {
			return 0, fmt.Errorf("%s: %w", res.Source.Name(), e)
		}
	}

	diags := res.Diagnostics
	if opts.style {
		diags = append(append([]jlx.Diagnostic(nil), diags...), julia.Style(res.Root)...)
		sort.SliceStable(diags, func(i, j int) bool {
			return diags[i].Span.Start < diags[j].Span.Start
		})
	}

	for _, d := range diags {
		fmt.Fprintln(w, a.colors.diagnostic(res.Source, d))
	}
	cnt := countErrors(diags, opts.strict)
	if len(diags) == 0 && !opts.quiet {
		fmt.Fprintf(w, "%s: ok\n", res.Source.Name())
	}
	return cnt, nil
}
