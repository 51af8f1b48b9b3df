// Package errors provides structured, coded errors for vbind.
//
// Core data and binding operations never fail. Errors only come from the
// edges: compiling template expressions, loading markup, reading config and
// data files, decoding wire frames.
//
// # Error Codes
//
// Each error has a unique code (e.g., "E001") that maps to a category, a
// short message and an optional hint:
//
//	err := errors.New(errors.CodeInvalidExpression).
//	    WithSourceLocation("card.html", src, 42).
//	    WithDetail(`unexpected "}" in "a.}"`)
//
//	fmt.Print(err.Format())
//	// ERROR E001: Invalid binding expression
//	//
//	//   card.html:3:7
//	//
//	//   unexpected "}" in "a.}"
//	//
//	//   Hint: Expressions support paths (a.b[0]), quoted strings, ...
//
// Errors compare by code with errors.Is:
//
//	errors.Is(err, errors.New(errors.CodeDisposed))
package errors
