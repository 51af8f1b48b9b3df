// Package expr implements binding expressions: a small tagged tree of
// literals, path references and concatenations, a parser for the text
// between {{ and }}, and an evaluator that walks a store through an
// explicit Scope.
//
// Supported syntax:
//
//	name                path reference
//	extra.height        dotted path
//	list[0].title       index segment
//	map["a b"]          quoted key segment
//	'x' "x"             string literal
//	12 -1.5             number literal
//	true false null     keyword literals
//	a + ' ' + b         concatenation
//	(a + b)             grouping
//
// Interpolate splits attribute and text content into literal and
// expression parts.
package expr
