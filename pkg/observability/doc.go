/*
Package observability provides tools for monitoring the enhance decorator.

It turns the decorator's lifecycle hooks into Prometheus metrics and structured
log records, and combines several hook sets into one.
*/
package observability
