// Package core defines the shared domain types of the lesson generation
// service: the immutable generation request, the capability invocation
// union exchanged with the model backend, image search results, citation
// fragments, stored lesson records and the error taxonomy. It deliberately
// contains no I/O so that every other package can depend on it without
// cyclic imports.
package core
