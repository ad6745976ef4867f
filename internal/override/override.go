package override

import (
	"errors"
	"fmt"
	"io"
	"os"

	"hypercert-metadata/internal/csvio"
	"hypercert-metadata/internal/metadata"
)

// Column names of the override CSV.
const (
	ColumnProject   = "project"
	ColumnWorkScope = "work_scope"
)

// Table maps a project name to its curated work scope.
type Table map[string]string

// LoadFile loads an override table from a CSV file.
func LoadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open override file %s: %w", path, err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load override file %s: %w", path, err)
	}

	return table, nil
}

// Parse reads an override table from CSV data. Later rows for the same
// project replace earlier ones.
func Parse(r io.Reader) (Table, error) {
	reader, err := csvio.NewReader(r)
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}

	if err != nil {
		return nil, err
	}

	if err := reader.Require(ColumnProject, ColumnWorkScope); err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read override rows: %w", err)
	}

	table := make(Table, len(records))

	for _, rec := range records {
		project := rec.Get(ColumnProject)
		scope := rec.Get(ColumnWorkScope)

		if project == "" || scope == "" || scope == project {
			continue
		}

		table[project] = scope
	}

	return table, nil
}

// Lookup returns the curated work scope for a project name.
func (t Table) Lookup(name string) (string, bool) {
	scope, ok := t[name]
	return scope, ok && scope != ""
}

// Apply replaces the record's work scope if the table has an entry for
// its name. It reports whether the record was changed.
func (t Table) Apply(rec *metadata.Record) bool {
	scope, ok := t.Lookup(rec.Name)
	if !ok {
		return false
	}

	rec.SetWorkScope(scope)

	return true
}
