// Package dsl builds in-memory container pipeline graphs. A Pipeline is the
// registry of ops under construction; ContainerOps are registered through it
// and linked to each other by the parameter references embedded in their
// command and argument strings (see package param) plus explicit After edges.
//
// The package only constructs and validates the graph description. Compiling
// it into an orchestrator workflow document and executing it are left to
// downstream consumers, which read the finished graph through Ops, Edges and
// BuildLevels.
package dsl
