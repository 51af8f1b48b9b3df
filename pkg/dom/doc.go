// Package dom provides the live DOM tree that vbind bindings write into.
//
// Unlike a virtual DOM, a dom.Node is mutable and long-lived: the binding
// compiler records references to concrete nodes once, and later patches write
// straight into those nodes. The write surface mirrors the browser DOM:
//
//	el.SetAttribute("title", "hello")
//	el.SetClassName("msg msg-error")
//	el.Style().SetProperty("display", "none")
//	el.SetBoolProp("disabled", true)
//	text.SetTextContent("hello")
//
// # Boolean attributes
//
// Reflected boolean attributes (disabled, readonly, checked, ...) keep an IDL
// property next to the content attribute. Reading the property falls back to
// attribute presence until the property is written explicitly.
//
// # Mutation recording
//
// A Recorder attached to any ancestor receives one Mutation for every
// effective write in its subtree. Writes that leave the DOM unchanged are not
// recorded. The live package turns these mutations into wire patches.
package dom
