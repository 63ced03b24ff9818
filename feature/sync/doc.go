// Package sync implements the weight reconciliation engine.
//
// It moves body-weight measurements from a source platform (Withings) to a
// sink platform (Garmin Connect) such that a measurement entered on the
// source eventually appears exactly once on the sink, even though the two
// platforms have independent clocks, unit conventions, and no shared
// identifier space.
//
// # Components
//
//   - Matcher: pure, stateless tolerance-based duplicate detection
//     (±2 minutes, ±0.1kg by default). Filters candidate lists down to
//     genuinely new entries, oldest first.
//   - Service: orchestrates one run. Resolves the time window (default:
//     last 7 days), fetches candidates from the source, fetches a wider
//     30-day reference window from the sink, filters, enforces the
//     per-run safety cap (5 writes), and writes each surviving record
//     with per-record failure isolation.
//   - Handler: Fiber routes for the Withings webhook and manual triggers.
//
// # Idempotence
//
// Runs are idempotent by construction, not by transaction: a crashed run
// leaves whatever writes completed, and the tolerance-based duplicate
// check on the next run prevents re-writing those. Each Service
// serializes its runs, so concurrent triggers for the same account never
// interleave writes.
//
// # HTTP Endpoints
//
//   - HEAD|GET /webhook/withings : vendor endpoint verification.
//   - POST /webhook/withings : measurement notification, triggers a run.
//   - POST /sync/manual?days=N : manual run over the last N days.
package sync
