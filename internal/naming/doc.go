// Package naming derives stable identifiers and display strings from
// free-form project names.
//
// Key functions:
//   - Slug: filesystem-safe identifier used for output and allowlist file names
//   - TitleCase: word capitalization matching the display values of the
//     hypercert schema
//   - Truncate: rune-safe prefix used for default work scopes
package naming
