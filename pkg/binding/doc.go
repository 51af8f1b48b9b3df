// Package binding compiles a raw DOM tree into binding descriptors and
// applies them.
//
// Compile walks the tree once. Every text node and attribute value that
// contains a {{ }} interpolation becomes one Descriptor. The descriptor's
// kind is chosen at compile time from the attribute name and carries its own
// apply routine:
//
//	text node                                      KindText
//	class                                          KindClass
//	style                                          KindStyle
//	disabled readonly checked selected multiple    KindBoolProp
//	anything else (including data-*)               KindAttribute
//
// A Patcher evaluates a descriptor against a scope (usually a *store.Store)
// and writes the normalized result through the DOM primitive of its kind.
// Writes that would not change the DOM are skipped, so applying the same
// descriptor twice is idempotent.
package binding
