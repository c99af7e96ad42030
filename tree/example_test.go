package tree_test

import (
	"context"
	"fmt"

	"github.com/ava12/jlx/langdef"
	"github.com/ava12/jlx/parser"
	"github.com/ava12/jlx/source"
	"github.com/ava12/jlx/tree"
)

func parse(grammar, input string) *tree.Node {
	g, e := langdef.ParseString("grammar", grammar)
	if e != nil {
		fmt.Println(e)
		return nil
	}

	p, e := parser.New(g)
	if e != nil {
		fmt.Println(e)
		return nil
	}

	res, e := p.Parse(context.Background(), source.New("input", []byte(input)), nil)
	if e != nil {
		fmt.Println(e)
		return nil
	}
	return res.Root
}

func ExampleWalk() {
	root := parse(`$name = /\w+/; $op = /=/; g = var, "=", value; var = $name; value = $name;`, "foo=bar")

	indent := "----------"
	visitor := func(stat tree.WalkStat) tree.WalkerFlags {
		el := stat.Element
		if el.IsNode() {
			fmt.Printf("%s%s:\n", indent[:stat.Level*2], el.TypeName())
		} else {
			fmt.Printf("%s%s %q\n", indent[:stat.Level*2], el.TypeName(), el.Token().Text())
		}
		return 0
	}
	tree.Walk(root, tree.WalkLtr, visitor)
	// Output:
	// g:
	// --var:
	// ----name "foo"
	// --op "="
	// --value:
	// ----name "bar"
}

func ExampleDump() {
	root := parse(`
		$space = /[ \t]+/; $name = /\w+/; $op = /=/;
		!aside $space; !class whitespace $space;
		g = {pair}; pair = $name, '=', $name;
	`, "a = b c=d")

	fmt.Println(tree.Dump(root, 0))
	fmt.Println(tree.Dump(root.Child(2), tree.DumpTrivia|tree.DumpSpans|tree.DumpTypes))
	// Output:
	// (g (pair "a" "=" "b") (pair "c" "=" "d"))
	// (pair @6:9 name:"c" op:"=" name:"d")
}

func ExampleSelector() {
	root := parse(`
		$space = /[ \t]+/; $name = /\w+/; $op = /[=,]/;
		!aside $space; !class whitespace $space;
		g = {pair}; pair = key, '=', value, {',', value}; key = $name; value = $name;
	`, "a = b, c  x = y")

	values := tree.NewSelector().
		Search(tree.IsA("pair")).
		Filter(tree.Has(tree.NthChildren(0), tree.Has(tree.NthChildren(0), tree.IsALiteral("a")))).
		Search(tree.IsA("value")).
		Apply(root)
	for _, v := range values {
		fmt.Println(tree.Text(v))
	}

	leaf := tree.ElementAt(root, 14)
	fmt.Println(tree.Text(leaf), tree.NodeLevel(leaf), tree.Ancestor(leaf, 0).TypeName())
	// Output:
	// b
	// c
	// y 3 value
}
