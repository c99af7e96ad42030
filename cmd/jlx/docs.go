package main

import (
	"fmt"
	"html"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava12/jlx/docfmt"
	"github.com/ava12/jlx/julia"
	"github.com/ava12/jlx/tree"
)

func (a *app) docsCommand() *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "docs <file>...",
		Short: "Print docstrings",
		Long: "Print docstrings of documented definitions as Markdown, or as HTML with --html.\n" +
			"Cross references become anchors named after the referenced definitions.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, e := a.parseFiles(cmd.Context(), args, cmd.InOrStdin())
			if e != nil {
				return e
			}

			out := cmd.OutOrStdout()
			for _, res := range results {
				for _, ds := range julia.Docstrings(res.Root) {
					name := ds.Name
					if name == "" {
						line, col := res.Source.LineCol(ds.Node.Span().Start)
						name = fmt.Sprintf("%s:%d:%d", res.Source.Name(), line, col)
					}

					switch {
					case asHTML && ds.Body != nil:
						fmt.Fprintf(out, "<h2 id=%q>%s</h2>\n%s\n", docfmt.Anchor(name)[1:], html.EscapeString(name), docfmt.HTML(ds.Body))
					case asHTML:
						fmt.Fprintf(out, "<h2 id=%q>%s</h2>\n<pre>%s</pre>\n\n", docfmt.Anchor(name)[1:], html.EscapeString(name), html.EscapeString(tree.Text(ds.Node)))
					case ds.Body != nil:
						fmt.Fprintf(out, "## %s\n\n%s\n\n", name, strings.TrimSpace(docfmt.Markdown(ds.Body)))
					default:
						fmt.Fprintf(out, "## %s\n\n```\n%s\n```\n\n", name, tree.Text(ds.Node))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "render HTML")
	return cmd
}
