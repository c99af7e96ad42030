package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ava12/jlx/julia"
	"github.com/ava12/jlx/source"
)

type outlineEntry struct {
	Kind     string         `yaml:"kind"`
	Name     string         `yaml:"name"`
	Line     int            `yaml:"line"`
	Col      int            `yaml:"col"`
	Children []outlineEntry `yaml:"children,omitempty"`
}

func outlineEntries(src *source.Source, syms []julia.Symbol) []outlineEntry {
	res := make([]outlineEntry, 0, len(syms))
	for _, s := range syms {
		line, col := src.LineCol(s.Span.Start)
		res = append(res, outlineEntry{
			Kind:     s.Kind.String(),
			Name:     s.Name,
			Line:     line,
			Col:      col,
			Children: outlineEntries(src, s.Children),
		})
	}
	return res
}

func (a *app) outlineCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "outline <file>...",
		Short: "List definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown output format: %s", format)
			}

			results, e := a.parseFiles(cmd.Context(), args, cmd.InOrStdin())
			if e != nil {
				return e
			}

			out := cmd.OutOrStdout()
			if format == "yaml" {
				files := make(map[string][]outlineEntry, len(results))
				for _, res := range results {
					files[res.Source.Name()] = outlineEntries(res.Source, julia.Outline(res.Root))
				}
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if e := enc.Encode(files); e != nil {
					return e
				}
				return enc.Close()
			}

			for _, res := range results {
				if len(results) > 1 {
					fmt.Fprintln(out, "###", res.Source.Name())
				}
				a.printOutline(out, outlineEntries(res.Source, julia.Outline(res.Root)), 0)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format: text or yaml")
	return cmd
}

func (a *app) printOutline(w io.Writer, entries []outlineEntry, level int) {
	indent := strings.Repeat("  ", level)
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s %s %d:%d\n", indent, e.Kind, a.colors.name.Sprint(e.Name), e.Line, e.Col)
		a.printOutline(w, e.Children, level+1)
	}
}
