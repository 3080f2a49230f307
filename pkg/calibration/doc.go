// Package calibration stores the two-point turbidity calibration and
// sequences its capture flow. It contains:
//
//   - Record: the two raw references with signature and checksum, in the
//     fixed binary layout written to disk
//   - Store: load/save/invalidate of that record, where "not loaded" is a
//     normal steady state rather than an error
//   - Flow: the long-press driven capture state machine
//
// These types are shared across daemon, client and CLI code to keep the
// JSON contracts consistent.
package calibration
