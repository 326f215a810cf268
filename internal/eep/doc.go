// Package eep holds the document model shared by the reader and writer:
// the RFC-2822 header block that opens every Erlang Enhancement Proposal
// and the small formatting helpers built on it.
package eep
