// Package model defines the internal block/connection graph produced by the
// import pipeline, along with the warning and error taxonomy shared by all
// pipeline stages.
//
// The graph is deliberately plain data: blocks own their ports and, for
// composite kinds, an exclusive subtree of child blocks and connections.
// Identifiers are unique within their enclosing scope at all times; a
// connection never references a port that does not exist in its scope.
//
// Nothing in this package performs I/O or logging. Stages that degrade
// gracefully (unknown types, unresolvable wiring) record their findings in a
// Report instead of returning errors, so a single bad entry never aborts an
// import.
package model
