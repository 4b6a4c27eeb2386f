// Package lang implements a small expression language: lexing, scope-based
// name substitution, unary normalization, infix-to-postfix compilation and
// postfix evaluation with dynamic type coercion.
//
// # Pipeline
//
// A line of source flows through these stages:
//
//	lexer.Lex      text → tokens
//	ParseStatement tokens → assignment | expression | unsupported
//	FoldStrings    Quote Literal Quote → one quoted literal
//	Substitute     bound names → the text of their scalar values
//	ResolveUnary   sign and "not" prefixes folded into literals
//	Compile        infix → postfix (shunting-yard)
//	Evaluate       postfix → one literal
//
// Array, object, string and function literals are parsed directly from the
// token stream. Object keys and values, and array elements that are not a
// single token, run through the full pipeline.
//
// # Values
//
// Numbers stay as decimal text until an operator needs them, so "3" and
// "3.0" remain distinguishable: integer operands produce integer results
// and any float operand promotes the operation to float.
//
// An array element written as a bare bound name is stored as a pointer to
// that name and resolved through the scope when the array is read, so it
// tracks the binding it names at read time.
//
// # Operators
//
// Precedence, tightest first; all binary operators are left-associative:
//
//	not (deferred)
//	*  /  %  mod
//	+  -
//	in  =  <>
//	and  or
//	>  <  >=  <=
//
// # Example
//
//	var x is 3
//	var xs is [x, 2, "two"]
//	(x * 13) mod 12      // 3
//	2 in xs              // true
//	not (x = 3)          // false
//
// # Sessions
//
// An [Interpreter] owns its [Scope]. There is no package-level state, so
// independent interpreters may run concurrently.
package lang
