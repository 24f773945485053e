// Package lang interprets a small pseudocode language.
//
// Source text passes through three stages: package lexer produces tokens,
// package parser builds a syntax tree, and an [Evaluator] walks the tree.
// [Interpret] runs all three.
//
// # Language
//
//	name <- INPUT("your name")
//	DISPLAY("hello", name)
//	total <- 3 + 2 + 7
//	DISPLAY(total MOD 5 = 2)
//
// Each line is a statement. "<-" binds the value of the rest of the line to
// a name in the current scope. Operators have no precedence and fold to the
// left, so "3/2*4 + 1 MOD 6" is 1. Parentheses group, and braces open a
// block whose statements run in a new scope:
//
//	x <- 1
//	{
//	  x <- 2
//	  DISPLAY(x)
//	}
//	DISPLAY(x)
//
// displays 2 then 1.
//
// # Values
//
// A [Var] is a literal (number, text or bool), a list, a native [Function],
// or a lambda written "\expr" whose evaluation is deferred until an embedder
// calls [Evaluator.Force]. Operators and builtins are ordinary Functions
// bound by name, so an embedder can rebind them in any scope.
//
// # Errors
//
// Operators never fail on mismatched operands: they produce a text value
// describing the mismatch. Everything else that cannot proceed, from an
// unterminated string to calling a number, is a hard [Error] that aborts the
// program.
package lang
