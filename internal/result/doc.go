// Package result implements the outcome type threaded through every disko
// pipeline stage.
//
// A Result is either a success carrying a value, the stage that produced it
// and optional advisory messages, or a failure carrying an *Error. Errors are
// made of one or more coded messages; the code namespace decides whether the
// failure is the operator's to fix (ERR_*) or an internal defect (BUG_*).
//
// Stages compose with Chain, which short-circuits on the first failure and
// hands it through unchanged, so the stage label reported to the operator is
// always the one where things first went wrong. Finalize maps a Result to a
// process exit code and the text to print.
package result
