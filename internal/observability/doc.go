// Package observability provides event logging, metrics calculation, and
// deadline alerting for the documentation workflow. It uses structured JSON
// Lines (JSONL) for event persistence and derives metrics on-demand from
// the event log.
package observability
