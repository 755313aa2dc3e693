/*
Package ports defines the driven ports (interfaces) of the blend engine.

These interfaces decouple the combination service and the edit sessions from
external implementations, allowing them to work with various storage backends
and registry sources.

# Key Interfaces

  - CombinationStore: Persists and loads whole Combination records.
  - Registry: Supplies the identifiers formulas may reference.
  - DistributedLocker: Provides distributed locking for concurrent combination edits.
*/
package ports
