/*
Package observability provides Prometheus instrumentation for the blend engine.

It counts formula commits by outcome, mention insertions and combination
mutations, and tracks how many edit sessions are open. A nil *Metrics is valid
and records nothing, so components can take it as an optional dependency.
*/
package observability
