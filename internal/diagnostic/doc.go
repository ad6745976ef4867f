// Package diagnostic provides structured row-level errors, warnings and
// notes collected while building metadata.
//
// Key capabilities:
//   - Per-row parse and mapping failures with the raw row attached
//   - Registry rejections reported as warnings
//   - Work-scope override notes
//   - JSON report output for later inspection
package diagnostic
