// Package batch drives a metadata build over an application export.
//
// A run reads every row of the input CSV, then for each row:
//  1. decodes the ipfs_data payload (object or JSON-encoded string)
//  2. maps it to a hypercert record, dropping projects the registry rejects
//  3. applies the curated work-scope override, if any
//  4. writes <output_dir>/<slug(name)>.json atomically
//
// Row failures never stop the run. They are logged with the raw row and
// collected as diagnostics; only an unreadable input is fatal. Rows may be
// processed by several workers, and each output file is replaced
// atomically, so readers never observe a partial record. When two projects
// share a slug, the row processed last wins (input order when running with
// a single worker).
package batch
