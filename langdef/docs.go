/*
Package langdef converts textual grammar description to grammar.Grammar structure.

Grammar is described using language that resembles EBNF. Self-definition of this language is:
*/
//  $space = /[ \r\n\t\f]+/; $comment = /#[^\n]*/;
//  $string = /"(?:[^\\"\n]|\\.)*"|'[^'\n]*'/;
//  $name = /[a-zA-Z_][a-zA-Z_0-9-]*/;
//  $dir = /![a-z]+/;
//  $template-name = /\$\$[a-zA-Z_][a-zA-Z_0-9-]*/;
//  $token-name = /\$[a-zA-Z_][a-zA-Z_0-9-]*/;
//  $regexp = /\/(?:[^\\\/\n]|\\.)+\//;
//  $op = /[(){}\[\]=|,;@:]/;
//
//  !aside $space $comment;
//
//  langdef = {directive | template-definition | token-definition | node-definition};
//  directive = $dir, [$name, [':', $name]], {$token-name | $string | $name}, ';';
//  template-definition = $template-name, '=', regexp, ';';
//  token-definition = $token-name, '=', regexp, ';';
//  regexp = ($regexp | $name), {$regexp | $name}; # names refer to templates
//  node-definition = $name, '=', sequence, ';';
//  sequence = item, {',', item};
//  item = variant, {'|', variant}; # NB!: foo | bar, baz is equal to (foo|bar), baz
//  variant = $name | $token-name | $string | '@' | group | optional | repeat;
//  group = '(', sequence, ')';
//  optional = '[', sequence, ']'; # match 0 or 1 time
//  repeat = '{', sequence, '}';   # match 0 or more times
/*
Description must be a valid UTF-8 text. Line breaks are insignificant, text may be a one-liner.
Description may contain line comments starting with # and ending with line feed.

String literal is either a sequence of symbols delimited with single quotes (no escapes)
or a sequence delimited with double quotes, where \\ \" \n \r \t \xHH \uHHHH \UHHHHHHHH escapes are recognized.

Name is a sequence of latin letters, digits, underscores, and hyphens, starting with letter or underscore.
Names are case-sensitive. Token type name is a name preceded by $, template name is a name preceded by $$.

Regular expression literal is a RE2 regular expression delimited with slashes (/).
To use slashes inside regexp escape them with backslashes (\).

Description contains template definitions, token type definitions, node definitions, and directives
in any order. There must be at least one node definition, the first one is the root node.

Template definition has a form:
   $$template-name = /regexp/ ;

Token type definition has a form:
   $type-name = /regexp/ template-name /regexp/ ;

Regexp literals and previously defined templates are concatenated. If the resulting regexp
has a capturing group starting at the match start, the group is the token text and the rest
of the match is trailing context (lookahead), e.g. /(\d+)\.\./ matches "1" in "1..2".
Other groups must be non-capturing.

Lexer returns the longest match among token types of the current mode, ties go to the type defined first.

Node definition has a form:
   node-name = list ;

A list consists of one or more comma-separated items. An item is one or more variants separated by pipe (|) symbol.
A variant is either a node name, a token type, a string literal, or a nested list enclosed in round, square,
or curly braces. Square braces denote optional lists (matched 0 or 1 time), curly braces denote repeated lists
(matched 0 or more times). Alternatives are chosen by the first token, the first suitable one wins.
Left-recursive definitions are not allowed, operator precedence is described with directives instead.

Directive has a form:
   !name [arguments] ;

Token type directives:

!aside $t ...; lists trivia token types. Aside tokens are kept in the tree but skipped by rules.
They must not be used in node definitions.

!error $t ...; lists error token types. Each error token produces a lexical diagnostic.

!newline $t ...; lists newline token types. Newlines are significant in block context
and trivia inside nested nodes. Newline class is assigned if no class is set.

!class class-name $t ...; sets token class: identifier, keyword, operator, number, string,
comment, whitespace, newline, or error.

!literal $t ...; lists token types allowed to produce string literals.
By default any token type whose regexp matches the literal text is allowed.

!reserved 'word' ...; lists reserved words. Reserved literal is never matched as its token type.
Reserved words get keyword class, other literals get operator class.

!sync 'literal' $t ...; lists synchronization tokens used by error recovery.

Mode directives:

!mode name [: base]; puts following token type definitions into the mode.
Token types defined before any !mode directive belong to the "default" mode.

!mode name [: base] $t ...; adds listed token types to the mode.
A derived mode tries its own token types before the ones of its base mode.

!push mode $t ...; token types push the mode onto the lexer mode stack.

!switch mode $t ...; token types replace the top of the mode stack.

!pop $t ...; token types pop the mode stack.

Node directives:

!nested node ...; newlines are trivia inside listed nodes (brackets).

!block node ...; newlines are significant inside listed nodes, even when nested.

!inline node ...; children of listed nodes are spliced into the parent node.

!suffix node ...; listed nodes wrap the left operand of an expression.
Suffix node definition must start with @, e.g. call = @, '(', args, ')';

Expression directives:

!expression node operand; defines an expression node parsed by operator precedence over operand node.
Expression nodes never appear in trees.

!left node 'op' ...; !right node 'op' ...; !none node 'op' ...; define binary operator levels,
from the lowest precedence to the highest one. Non-associative levels chain operands: a < b < c.

!prefix node 'op' ...; !postfix node 'op' ...; define unary operator levels.

!ternary node 'question' 'colon'; defines a right-associative ternary level.

The same node name may be used for several levels.

!opref node; defines the node wrapping operators used as values, e.g. map(+, xs).

!dotted "prefix"; dotted operators (".+") share the level of their base operators.

!version "stamp"; sets the grammar version, used by the compiled grammar cache.
*/
package langdef
