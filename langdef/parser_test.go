package langdef

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/jlx"
)

const toks = "$tok = /\\S+/;"

// errorCodes extracts codes of all jlx errors from a single error or a multierror.
func errorCodes(e error) []int {
	var me *multierror.Error
	if errors.As(e, &me) {
		var res []int
		for _, x := range me.Errors {
			res = append(res, errorCodes(x)...)
		}
		return res
	}

	var je *jlx.Error
	if errors.As(e, &je) {
		return []int{je.Code}
	}
	return nil
}

func checkErrorCode(t *testing.T, samples []string, code int) {
	t.Helper()
	for i, src := range samples {
		_, e := ParseString("sample", src)
		if code == 0 {
			assert.NoError(t, e, "sample #%d", i)
			continue
		}

		require.Error(t, e, "sample #%d", i)
		assert.Contains(t, errorCodes(e), code, "sample #%d: %s", i, e)
	}
}

func TestUnexpectedEof(t *testing.T) {
	checkErrorCode(t, []string{
		"",
		" ",
		"\n",
		"foo",
		"foo = ",
		"foo = 'bar'",
		"!aside $a",
	}, UnexpectedEofError)
}

func TestUnexpectedToken(t *testing.T) {
	checkErrorCode(t, []string{
		"!aside =",
		"!aside $foo,",
		"foo = ;",
		"foo = 'a' 'b';",
		"$a = ;",
	}, UnexpectedTokenError)
}

func TestWrongChar(t *testing.T) {
	checkErrorCode(t, []string{"g = %;", "g = 'a' ` 'b';", "$$d = /[0-9]/; $num = /-/ d /;\ng = $num;"}, WrongCharError)
}

func TestUnknownDirective(t *testing.T) {
	checkErrorCode(t, []string{"!extern $foo;", "!group $a;"}, UnknownDirectiveError)
}

func TestWrongToken(t *testing.T) {
	checkErrorCode(t, []string{
		"!aside $foo; $foo = /foo/; bar = $foo;",
		"!error $foo; $foo = /foo/; bar = $foo;",
	}, WrongTokenError)
}

func TestTokenDefined(t *testing.T) {
	checkErrorCode(t, []string{"$foo = /a/; $bar = /b/; $foo = /c/;"}, TokenDefinedError)
}

func TestNodeDefined(t *testing.T) {
	checkErrorCode(t, []string{
		"foo = 'foo'; bar = 'bar'; foo = 'baz';",
		"!expression foo bar; foo = 'foo';",
		"$a = /a/; g = $a; !left g '+';",
	}, NodeDefinedError)
}

func TestWrongRegexp(t *testing.T) {
	for _, re := range []string{"(foo", "foo)", "[foo", "\\C"} {
		_, e := ParseString("sample", "$foo = /"+re+"/;")
		require.Error(t, e, re)
		assert.Equal(t, []int{WrongRegexpError}, errorCodes(e), re)
	}
}

func TestTemplates(t *testing.T) {
	checkErrorCode(t, []string{"$foo = /a/ bar;"}, UnknownTemplateError)
	checkErrorCode(t, []string{"$$a = /a/; $$a = /b/;"}, TemplateDefinedError)
	checkErrorCode(t, []string{"$$d = /[0-9]/; $num = d /+/; g = $num;"}, 0)
}

func TestStringEscapes(t *testing.T) {
	checkErrorCode(t, []string{`$a = /./; g = "\q";`, `$a = /./; g = "\x4";`}, InvalidEscapeError)
	checkErrorCode(t, []string{`$a = /./; g = "\U00110000";`}, InvalidRuneError)
	checkErrorCode(t, []string{`$a = /[^ ]/; g = "\x41", "\t", '\';`}, 0)
}

func TestUnknownNode(t *testing.T) {
	checkErrorCode(t, []string{"$name = /\\w+/; foo = 'foo' | bar;"}, UnknownNodeError)
}

func TestUnusedNode(t *testing.T) {
	checkErrorCode(t, []string{
		"$name = /\\w+/; foo = 'foo' | 'bar'; bar = baz | 'bar'; baz = 'baz';",
		"$name = /\\w+/; foo = $name; bar = $name;",
	}, UnusedNodeError)
}

func TestUnresolved(t *testing.T) {
	checkErrorCode(t, []string{"foo = bar | baz; bar = baz | foo; baz = foo | bar;"}, UnresolvedError)
}

func TestRecursions(t *testing.T) {
	checkErrorCode(t, []string{
		"$name = /\\w+/; foo = bar; bar = bar | 'baz';",
		"$name = /\\w+/; foo = bar; bar = 'bar' | baz; baz = bar, 'baz';",
		"$name = /\\w+/; foo = bar; bar = [$name], {'x'}, bar;",
	}, RecursionError)
}

func TestUndefinedToken(t *testing.T) {
	checkErrorCode(t, []string{
		"$name = /\\w+/; !aside $foo; g = $name;",
		"$name = /\\w+/; g = $name, $foo;",
	}, UndefinedTokenError)
}

func TestUnknownLiteral(t *testing.T) {
	checkErrorCode(t, []string{
		"$num = /\\d+/; g = 'x';",
		"$num = /\\d+/; $name = /[a-z]+/; !literal $num; g = 'x';",
	}, UnknownLiteralError)
}

func TestUnknownModeAndClass(t *testing.T) {
	checkErrorCode(t, []string{"$a = /a/; !push nowhere $a; g = $a;", "!mode m : nowhere; $a = /a/; g = $a;"}, UnknownModeError)
	checkErrorCode(t, []string{"$a = /a/; !class fancy $a; g = $a;"}, UnknownClassError)
}

func TestWrongDirective(t *testing.T) {
	checkErrorCode(t, []string{
		"!ternary cond '?';",
		"!left ops;",
		"$a = /a/; g = $a; !suffix g;",
		"$a = /a/; g = @, $a;",
		"$a = /[a+]/; g = $a; !left ops '+';",
		"$a = /a/; !opref x; !opref y; g = $a;",
		"$a = /a/; !nested h; g = $a;",
	}, WrongDirectiveError)
}

func TestNoError(t *testing.T) {
	checkErrorCode(t, []string{
		toks + "foo = 'foo' | bar; bar = 'bar' | 'baz';",
		"!aside $space; $space = /\\s/; $name = /\\w/; g = {$name};",
		"$name = /\\w+/; !literal $name; g = $name, 'a', 'b';",
		"$name = /\\w+/; $op = /[+*]/; !expression e v; !left s '+'; !left p '*'; g = e; v = $name;",
		"!version \"1.0\"; $a = /a/; g = {$a};",
	}, 0)
}
