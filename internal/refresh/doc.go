// Package refresh keeps the department snapshot fresh.
//
// Scheduler runs the ingestion pipeline once at startup and then on a fixed
// interval. The outcome of each attempt folds into a single shared slot:
// success replaces the snapshot atomically, failure leaves the last good
// snapshot visible and records the error. Attempts are serialized on one
// worker goroutine — a tick that fires while an attempt is still running is
// coalesced by the ticker, so two attempts never overlap and a fresh
// snapshot can never be overwritten by a staler one.
//
// View() hands consumers a copy of the current state: records, a loading
// flag (true only until the first attempt completes), the last error, and
// the last successful update time.
package refresh
