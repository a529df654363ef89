/*
Package app provides a concrete host application for plugins.

An App owns an options store, a set of registration markers, a method table and
an error channel. Its Use and Run entry points dispatch through the method
table, so decorators such as the enhance package can replace them at runtime.

On its own, an App registers one plugin per Use call and reports failures as a
sticky Err, much like a throwing host would. The Runner plugin adds a "run"
method that applies transformers produced by smart plugins.
*/
package app
