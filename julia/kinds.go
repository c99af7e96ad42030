package julia

import (
	"fmt"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/parser"
	"github.com/ava12/jlx/tree"
)

// Kind is the type of Julia nodes. Values below KindDocstring are grammar node indexes,
// the rest are assigned by hooks.
type Kind int

const (
	KindToplevel Kind = iota
	KindStatement
	KindOperand
	KindIndexOperand
	KindFunctionDef
	KindMacroDef
	KindStructDef
	KindAbstractDef
	KindPrimitiveDef
	KindModuleDef
	KindBlock
	KindIfExpr
	KindElseifClause
	KindElseClause
	KindForLoop
	KindWhileLoop
	KindLetBlock
	KindBeginBlock
	KindQuoteBlock
	KindTryBlock
	KindCatchClause
	KindFinallyClause
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindConstStmt
	KindGlobalStmt
	KindLocalStmt
	KindUsingStmt
	KindImportStmt
	KindImportList
	KindImportPath
	KindPathName
	KindExportStmt
	KindMacrocall
	KindMacroArgs
	KindString
	KindTripleString
	KindStringPart
	KindInterpolation
	KindStringMacro
	KindJuxtapose
	KindParen
	KindArray
	KindBraces
	KindListItem
	KindIndexItem
	KindForClause
	KindIfClause
	KindCall
	KindIndex
	KindCurly
	KindField
	KindDotArgs
	KindDoBlock

	KindExpr
	KindIndexExpr
	KindAssignment
	KindPair
	KindLambda
	KindTernary
	KindLogicalExpr
	KindWhereExpr
	KindComparison
	KindPipeExpr
	KindSplat
	KindRangeExpr
	KindBinaryExpr
	KindUnaryExpr
	KindTypeDecl
	KindAdjoint
	KindOperator

	KindDocstring
	KindTuple
	KindGenerator
	KindComprehension
	KindBroadcastCall

	KindError Kind = tree.ErrorKind
)

var kindNames = [...]string{
	"toplevel", "statement", "operand", "index-operand",
	"function-def", "macro-def", "struct-def", "abstract-def", "primitive-def", "module-def", "block",
	"if-expr", "elseif-clause", "else-clause", "for-loop", "while-loop", "let-block", "begin-block",
	"quote-block", "try-block", "catch-clause", "finally-clause",
	"return-stmt", "break-stmt", "continue-stmt", "const-stmt", "global-stmt", "local-stmt",
	"using-stmt", "import-stmt", "import-list", "import-path", "path-name", "export-stmt",
	"macrocall", "macro-args", "string", "triple-string", "string-part", "interpolation", "string-macro",
	"juxtapose", "paren", "array", "braces", "list-item", "index-item", "for-clause", "if-clause",
	"call", "index", "curly", "field", "dot-args", "do-block",
	"expr", "index-expr", "assignment", "pair", "lambda", "ternary", "logical-expr", "where-expr",
	"comparison", "pipe-expr", "splat", "range-expr", "binary-expr", "unary-expr", "type-decl",
	"adjoint", "operator",
	"docstring", "tuple", "generator", "comprehension", "broadcast-call",
}

func (k Kind) String() string {
	switch {
	case k == KindError:
		return tree.ErrorTypeName
	case k >= 0 && int(k) < len(kindNames):
		return kindNames[k]
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf returns the kind of a Julia node or KindError for leaves and nodes of other dialects.
func KindOf(e tree.Element) Kind {
	n, is := e.(*tree.Node)
	if !is || n == nil || n.Dialect() != Dialect {
		return KindError
	}
	return Kind(n.Kind())
}

// IsDefinition reports whether a docstring may be attached to nodes of kind k.
func (k Kind) IsDefinition() bool {
	switch k {
	case KindFunctionDef, KindMacroDef, KindStructDef, KindAbstractDef, KindPrimitiveDef, KindModuleDef,
		KindConstStmt, KindGlobalStmt, KindMacrocall, KindAssignment:
		return true
	}
	return false
}

func (k Kind) isString() bool {
	return k == KindString || k == KindTripleString || k == KindStringMacro
}

// checkKinds verifies that grammar nodes match Kind values.
func checkKinds(g *grammar.Grammar) error {
	if len(g.Nodes) != int(KindDocstring) {
		return jlx.FormatError(parser.BadGrammarError, "grammar %q defines %d nodes, expecting %d", g.Name, len(g.Nodes), int(KindDocstring))
	}

	for i, nd := range g.Nodes {
		if nd.Name != kindNames[i] {
			return jlx.FormatError(parser.BadGrammarError, "grammar %q: node #%d is %q, expecting %q", g.Name, i, nd.Name, kindNames[i])
		}
	}
	return nil
}
