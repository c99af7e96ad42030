package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava12/jlx/langdef"
	"github.com/ava12/jlx/parser"
	"github.com/ava12/jlx/source"
)

func (a *app) grammarCommand() *cobra.Command {
	var (
		expectError, multiSample bool
		sampleSeparator          string
		width                    int
	)

	cmd := &cobra.Command{
		Use:   "grammar <grammar_file> <source_file>",
		Short: "Check a grammar definition against a source file",
		Long: "Parse a source file with a grammar definition and print block listings of the trees.\n\n" +
			"With -m the source file contains multiple samples and the first line is the separator:\n" +
			"each separator line starts with the same sequence of non-spacing characters, the rest of\n" +
			"the line is a comment. With -s the file is treated as multiple samples if it starts with\n" +
			"the given prefix. The last LF preceding a separator is not included in the sample.\n\n" +
			"With -e every sample must have syntax errors.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, e := loadFile(args[0], cmd.InOrStdin())
			if e != nil {
				return e
			}

			g, e := langdef.Parse(source.New(args[0], gc))
			if e != nil {
				return e
			}

			p, e := parser.New(g, parser.WithLogger(a.log))
			if e != nil {
				return e
			}

			content, e := loadFile(args[1], cmd.InOrStdin())
			if e != nil {
				return e
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			failed := false
			for _, s := range splitSamples(args[1], content, multiSample, []byte(sampleSeparator)) {
				fmt.Fprintln(out, s.name)
				src := source.New(s.name, s.content)
				res, e := p.Parse(cmd.Context(), src, nil)
				if e != nil {
					return e
				}

				hasErrors := countErrors(res.Diagnostics, false) > 0
				switch {
				case hasErrors && expectError:
					for _, d := range res.Diagnostics {
						fmt.Fprintln(out, "  *** error:", a.colors.diagnostic(src, d))
					}
				case hasErrors:
					for _, d := range res.Diagnostics {
						fmt.Fprintln(errOut, "  *** error:", a.colors.diagnostic(src, d))
					}
					failed = true
				case expectError:
					fmt.Fprintf(errOut, "  *** expecting error, got success in %s\n", s.name)
					failed = true
				default:
					printTree(out, res.Root, a.colors, width)
				}
			}

			if failed {
				return errInput
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.BoolVarP(&expectError, "errors", "e", false, "source file contains syntax errors")
	fs.BoolVarP(&multiSample, "multi", "m", false, "source file contains multiple samples, first line is the separator")
	fs.StringVarP(&sampleSeparator, "separator", "s", "", "treat source file as multiple samples if it starts with this string")
	fs.IntVarP(&width, "width", "w", maxLineLength, "maximum output line width, runes")
	return cmd
}
