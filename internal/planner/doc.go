// Package planner reconciles a target storage layout with the current state
// of a machine and produces an ordered plan of device operations.
//
// Planning is a pure function of the requested actions and two snapshots.
// Each storage subsystem is handled by its own Backend; the Reconciler
// dispatches subtrees in a fixed order and merges the resulting segments.
//
// Key responsibilities:
//   - Action vocabulary and the CLI modes built from it
//   - Plan and Step types, filtering of unrequested steps
//   - Fail-fast, deterministic backend dispatch
//   - Stage ordering (destroy, then format, then mount)
package planner
