// Package override loads curated work scopes and applies them to built
// records.
//
// The override table is a CSV with the columns "project" and
// "work_scope". Rows whose work scope equals the project name carry no
// curation and are discarded, as are rows with an empty project or work
// scope. An override replaces the default truncated-name work scope with
// the curated string verbatim (no title casing).
package override
