/*
jlxgen is a console utility translating grammar description to Go or YAML file.
Usage is

	jlxgen [-y | [-p <name>] [-v <name>]] [-o <name>] <file>

-y flag instructs jlxgen to output YAML file (langdef cache format) instead of Go source;

-o <name> defines output file name, default is the name of input file with .go or .yaml suffix;

-p <name> defines Go package name, default is directory name of output file;

-v <name> defines generated Go variable name of type *grammar.Grammar, default is the name of root node
with non-alphanumeric characters removed;

<file> defines grammar definition file parsable by langdef.Parse().
*/
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/langdef"
)

type options struct {
	yaml                              bool
	outFileName, packageName, varName string
}

func main() {
	if e := newCommand().Execute(); e != nil {
		fmt.Fprintln(os.Stderr, e.Error())
		os.Exit(3)
	}
}

func newCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "jlxgen [-y | [-p <name>] [-v <name>]] [-o <name>] <file>",
		Short:         "Translate grammar description to Go or YAML",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return generate(args[0], opts)
		},
	}

	fs := cmd.Flags()
	fs.BoolVarP(&opts.yaml, "yaml", "y", false, "output YAML instead of Go")
	fs.StringVarP(&opts.outFileName, "output", "o", "", "output file name, default is the name of input file with .go or .yaml suffix")
	fs.StringVarP(&opts.packageName, "package", "p", "", "Go package name, default is dir name of output file")
	fs.StringVarP(&opts.varName, "var", "v", "", "Go variable name, default is the root node name")
	return cmd
}

func generate(inFileName string, opts options) error {
	if opts.outFileName == "" {
		ext := filepath.Ext(inFileName)
		opts.outFileName = inFileName[:len(inFileName)-len(ext)]
		if opts.yaml {
			opts.outFileName += ".yaml"
		} else {
			opts.outFileName += ".go"
		}
	}

	src, e := os.ReadFile(inFileName)
	if e != nil {
		return e
	}

	gr, e := langdef.ParseBytes(inFileName, src)
	if e != nil {
		return e
	}

	var content []byte
	if opts.yaml {
		content, e = makeYAML(gr)
	} else {
		content, e = makeGo(gr, opts)
	}
	if e != nil {
		return e
	}

	return os.WriteFile(opts.outFileName, content, 0o666)
}

func makeYAML(gr *grammar.Grammar) ([]byte, error) {
	var buffer bytes.Buffer
	enc := yaml.NewEncoder(&buffer)
	enc.SetIndent(2)
	if e := enc.Encode(gr); e != nil {
		return nil, e
	}
	if e := enc.Close(); e != nil {
		return nil, e
	}
	return buffer.Bytes(), nil
}

var (
	identRe    = regexp.MustCompile("^[A-Za-z_][A-Za-z_0-9]*$")
	nonIdentRe = regexp.MustCompile("[^A-Za-z_0-9]+")
)

func makeGo(gr *grammar.Grammar, opts options) ([]byte, error) {
	packageName, varName := opts.packageName, opts.varName
	if packageName == "" {
		dir, e := filepath.Abs(opts.outFileName)
		if e != nil {
			return nil, e
		}

		packageName = filepath.Base(filepath.Dir(dir))
	}
	if varName == "" {
		varName = nonIdentRe.ReplaceAllString(gr.Nodes[grammar.RootNode].Name, "")
	}

	if !identRe.MatchString(packageName) {
		return nil, fmt.Errorf("invalid package name: %s", packageName)
	}
	if !identRe.MatchString(varName) {
		return nil, fmt.Errorf("invalid variable name: %s", varName)
	}

	var buffer bytes.Buffer

	buffer.WriteString("// Code generated with jlxgen. DO NOT EDIT.\n\n" +
		"package " + packageName + "\n\n" +
		"import \"github.com/ava12/jlx/grammar\"\n\n" +
		"var " + varName + " = &grammar.Grammar{\n")

	fmt.Fprintf(&buffer, "\tName: %q,\n", gr.Name)
	if gr.Version != "" {
		fmt.Fprintf(&buffer, "\tVersion: %q,\n", gr.Version)
	}

	buffer.WriteString("\tModes: []grammar.Mode{\n")
	for _, m := range gr.Modes {
		fmt.Fprintf(&buffer, "\t\t{Name: %q, Terms: %s},\n", m.Name, intSlice(m.Terms))
	}
	buffer.WriteString("\t},\n")

	buffer.WriteString("\tTerms: []grammar.Term{\n")
	for i, t := range gr.Terms {
		fmt.Fprintf(&buffer, "\t\t{Name: %q, Re: %q, Flags: %d, Class: %d, Action: %d, Target: %d}, // %d\n",
			t.Name, t.Re, t.Flags, t.Class, t.Action, t.Target, i)
	}
	buffer.WriteString("\t},\n")

	buffer.WriteString("\tNodes: []grammar.Node{\n")
	for i, n := range gr.Nodes {
		fmt.Fprintf(&buffer, "\t\t{ // %s(%d)\n", n.Name, i)
		fmt.Fprintf(&buffer, "\t\t\tName: %q, Flags: %d, Operand: %d, First: %s, Nullable: %t,\n",
			n.Name, n.Flags, n.Operand, intSlice(n.First), n.Nullable)
		buffer.WriteString("\t\t\tBody: ")
		writeItem(&buffer, n.Body, 3)
		buffer.WriteString(",\n\t\t},\n")
	}
	buffer.WriteString("\t},\n")

	buffer.WriteString("\tLevels: []grammar.OpLevel{\n")
	for _, l := range gr.Levels {
		fmt.Fprintf(&buffer, "\t\t{Node: %d, Kind: %d, Assoc: %d, Ops: %s}, // %s\n",
			l.Node, l.Kind, l.Assoc, intSlice(l.Ops), gr.Nodes[l.Node].Name)
	}
	buffer.WriteString("\t},\n")

	fmt.Fprintf(&buffer, "\tSuffixes: %s,\n", intSlice(gr.Suffixes))
	fmt.Fprintf(&buffer, "\tSync: %s,\n", intSlice(gr.Sync))
	fmt.Fprintf(&buffer, "\tDotted: %q,\n", gr.Dotted)
	fmt.Fprintf(&buffer, "\tOpRef: %d,\n", gr.OpRef)
	buffer.WriteString("}\n")

	return format.Source(buffer.Bytes())
}

func writeItem(buffer *bytes.Buffer, item grammar.Item, level int) {
	fmt.Fprintf(buffer, "grammar.Item{Kind: %d, Index: %d, First: %s, Nullable: %t", item.Kind, item.Index, intSlice(item.First), item.Nullable)
	if len(item.Items) == 0 {
		buffer.WriteString("}")
		return
	}

	indent := strings.Repeat("\t", level+1)
	buffer.WriteString(", Items: []grammar.Item{\n")
	for _, sub := range item.Items {
		buffer.WriteString(indent)
		writeItem(buffer, sub, level+1)
		buffer.WriteString(",\n")
	}
	buffer.WriteString(strings.Repeat("\t", level) + "}}")
}

func intSlice(is []int) string {
	if len(is) == 0 {
		return "nil"
	}

	parts := make([]string, len(is))
	for i, v := range is {
		parts[i] = fmt.Sprint(v)
	}
	return "[]int{" + strings.Join(parts, ", ") + "}"
}
