package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava12/jlx/source"
)

func (a *app) tokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, e := a.language()
			if e != nil {
				return e
			}

			content, e := loadFile(args[0], cmd.InOrStdin())
			if e != nil {
				return e
			}

			snap, e := snapshot(args[0], content)
			if e != nil {
				return e
			}

			tokens, diags := lang.Tokens(snap)
			out := cmd.OutOrStdout()
			for _, t := range tokens {
				fmt.Fprintf(out, "%d:%d\t%s\t%s\t%q\n", t.Line(), t.Col(), t.TypeName(), t.Class(), t.Text())
			}

			src := source.New(snap.Name, snap.Text)
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), a.colors.diagnostic(src, d))
			}
			if countErrors(diags, false) > 0 {
				return errInput
			}
			return nil
		},
	}
	return cmd
}
