// Package core provides the validation and categorization logic for the
// number analyzer.
//
// This package contains all domain logic independent of any UI or transport
// layer. It is used by the CLI and by the HTTP handlers without modification.
//
// # Pipeline
//
// A run reads the whole input before any aggregation happens:
//
//  1. [NewRowSource] decodes the input (encoding, BOM) and wraps encoding/csv
//  2. [RowSource.ReadHeader] resolves the configured column, or reports a
//     structural problem as a single [Rejection] at line 1
//  3. Every data row goes through [ValidateRow], which returns a tagged
//     [Result]: either an accepted number or a [Rejection]
//  4. Accepted numbers are split by [Categorize] and summarized by [Summarize]
//
// [Analyze] and [AnalyzeFile] run the whole pipeline and return an [Analysis].
//
// # Rejection Reasons
//
// Row-level problems never stop a run. Each rejected row is recorded with its
// line number, the raw field text as it appeared in the file, and one of:
//
//   - "empty row": the line had no fields at all
//   - "empty value": the field was blank or missing on that row
//   - "not a positive integer": the field contained anything but ASCII digits
//   - "out of range MIN-MAX": the number fell outside the inclusive range
//
// Structural problems ("missing header row", "missing column 'NAME'") stop the
// run after the header and are reported at line 1.
//
// # Error Handling
//
// Only unrecoverable conditions are returned as errors (input cannot be
// opened, undecodable encoding, malformed CSV, invalid settings). Technical
// errors are mapped to user-friendly messages using [MapError]:
//
//   - CFG001: Invalid settings
//   - FILE001-FILE005: File errors (missing, malformed, encoding, size)
//   - RUN001-RUN002: Run errors (cancelled, timeout)
package core
