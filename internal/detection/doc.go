// Package detection finds line runs on a fixed-width line-sensor bar.
//
// A bar reading is a Word: one bit per sensor cell, bit 0 is cell 0. The
// package detects contiguous "active" runs (lines) that are long enough and
// that are flanked on both sides by a long enough inactive region (border).
//
// # Pipeline
//
// Detection is composed of small pure functions:
//
//  1. Noise filtering (optional): Blur, BlurWeak or BlurStrong fill or erase
//     single and double cell irregularities
//  2. Thresholding: RepeatFilter keeps only the runs longer than n cells,
//     applied to the reading (lines) and to its complement (borders)
//  3. Splitting: Split decomposes the line mask into maximal Intervals
//  4. Border validation: FindLines keeps the runs whose neighbouring cells
//     on both sides belong to a border run
//
// # Edge Semantics
//
// Cells outside [0, Width) are always treated as clear. Shifts never wrap
// around, and a run touching either physical end of the bar never has a
// border on that side, so it is never reported by FindLines.
//
// # Concurrency
//
// Every function is a pure computation over values. Nothing is cached
// between calls; callers that want to avoid allocation pass their own
// buffer to AppendRuns or AppendLines.
package detection
