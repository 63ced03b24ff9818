// Package history persists reconciliation run outcomes to MySQL and
// serves them back over HTTP. It is strictly an audit trail: the engine
// never reads history to decide what to sync, so a missing or broken
// database degrades observability, not correctness.
package history
