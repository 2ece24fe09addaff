// Package view derives display orderings from a snapshot.
//
// Sorting is pure and stateless: the input is never mutated, equal keys
// keep their relative source order, and the default key preserves source
// order exactly. Name ordering is locale-aware through the collation the
// Sorter was built with.
package view
