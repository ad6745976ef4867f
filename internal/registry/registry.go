package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// Project is a single accepted project entry.
type Project struct {
	Title   string `json:"title"`
	Address string `json:"address"`
}

// Registry holds the accepted projects per round. It is read-only after
// loading and safe for concurrent use.
type Registry struct {
	rounds map[string][]Project
}

// LoadFile loads and parses a registry JSON file from the given path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses registry JSON data.
func Parse(data []byte) (*Registry, error) {
	var rounds map[string][]Project

	err := json.Unmarshal(data, &rounds)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry JSON: %w", err)
	}

	if rounds == nil {
		return nil, errors.New("failed to parse registry JSON: expected an object of rounds")
	}

	return &Registry{rounds: rounds}, nil
}

// New builds a registry from an in-memory round map. The map is copied.
func New(rounds map[string][]Project) *Registry {
	r := &Registry{rounds: make(map[string][]Project, len(rounds))}

	for name, projects := range rounds {
		r.rounds[name] = append([]Project(nil), projects...)
	}

	return r
}

// Verify reports whether the round lists a project with exactly the given
// title and address.
func (r *Registry) Verify(round, title, address string) bool {
	for _, p := range r.rounds[round] {
		if p.Title == title && p.Address == address {
			return true
		}
	}

	return false
}

// Has returns true if the registry knows the round.
func (r *Registry) Has(round string) bool {
	_, exists := r.rounds[round]
	return exists
}

// Projects returns a copy of the projects listed for a round, in file order.
func (r *Registry) Projects(round string) []Project {
	return append([]Project(nil), r.rounds[round]...)
}

// Rounds returns all round names in sorted order.
func (r *Registry) Rounds() []string {
	names := make([]string, 0, len(r.rounds))
	for name := range r.rounds {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Len returns the total number of project entries across all rounds.
func (r *Registry) Len() int {
	n := 0
	for _, projects := range r.rounds {
		n += len(projects)
	}

	return n
}
