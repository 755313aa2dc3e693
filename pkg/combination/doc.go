/*
Package combination implements the builder-side operations on combinations.

Service wraps a ports.CombinationStore with the add/rename/describe/add-term/
remove-term/set-coefficient/replace/duplicate/delete operations a list-editing
UI needs. Every read-modify-write cycle runs under a per-combination lock, and
optionally under a ports.DistributedLocker when several replicas share a store.
*/
package combination
