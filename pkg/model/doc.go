// Package model defines the shared department performance types consumed by
// the ingestion pipeline, the refresh scheduler, and the serving layer.
// These are the canonical in-memory representations of one snapshot,
// separate from any wire or storage format.
package model
