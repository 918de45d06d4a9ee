// Package artifact contains the artifact store contract and concrete
// implementations.
//
// Artifacts are flat, named byte blobs scoped under a job namespace; there
// are no directory semantics beyond that scoping. The in-memory store serves
// tests, examples and single-process prototypes. The minio subpackage
// provides the durable object-storage backend used in production.
//
// Callers should depend on the Store interface rather than concrete types so
// they can substitute alternative persistence layers in tests or production.
package artifact
