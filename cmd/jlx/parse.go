package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava12/jlx/tree"
)

func (a *app) parseCommand() *cobra.Command {
	var (
		trivia, spans, types, block bool
		width                       int
	)

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Print syntax trees",
		Long: "Print syntax trees as S-expressions or, with --block, as an indented block listing.\n" +
			"Diagnostics go to stderr.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, e := a.parseFiles(cmd.Context(), args, cmd.InOrStdin())
			if e != nil {
				return e
			}

			var flags tree.DumpFlags
			if trivia {
				flags |= tree.DumpTrivia
			}
			if spans {
				flags |= tree.DumpSpans
			}
			if types {
				flags |= tree.DumpTypes
			}

			out := cmd.OutOrStdout()
			failed := false
			for _, res := range results {
				if len(results) > 1 {
					fmt.Fprintln(out, "###", res.Source.Name())
				}
				if block {
					printTree(out, res.Root, a.colors, width)
				} else {
					fmt.Fprintln(out, tree.Dump(res.Root, flags))
				}

				for _, d := range res.Diagnostics {
					fmt.Fprintln(cmd.ErrOrStderr(), a.colors.diagnostic(res.Source, d))
				}
				failed = failed || countErrors(res.Diagnostics, false) > 0
			}

			if failed {
				return errInput
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&trivia, "trivia", false, "include trivia leaves")
	fs.BoolVar(&spans, "spans", false, "include byte spans")
	fs.BoolVar(&types, "types", false, "include leaf token types")
	fs.BoolVarP(&block, "block", "b", false, "print an indented block listing")
	fs.IntVarP(&width, "width", "w", maxLineLength, "maximum block listing line width, runes")
	return cmd
}
