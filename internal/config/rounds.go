package config

import (
	"errors"
	"fmt"
)

// ErrUnknownRound is returned when a round contract address has no entry
// in the round table.
var ErrUnknownRound = errors.New("unknown round")

// Round binds a round contract address to its matching pool name.
type Round struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name"`
}

// RoundTable resolves round contract addresses to matching pool names.
// A RoundTable is read-only once built.
type RoundTable struct {
	rounds []Round
	byAddr map[string]string
}

// NewRoundTable builds a table from the given rounds. Later duplicates of
// an address replace earlier ones.
func NewRoundTable(rounds []Round) RoundTable {
	t := RoundTable{
		rounds: make([]Round, len(rounds)),
		byAddr: make(map[string]string, len(rounds)),
	}

	copy(t.rounds, rounds)

	for _, r := range rounds {
		t.byAddr[r.Address] = r.Name
	}

	return t
}

// Resolve returns the matching pool name for a round contract address.
// Lookups are exact: addresses are not case-folded.
func (t RoundTable) Resolve(address string) (string, error) {
	name, ok := t.byAddr[address]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRound, address)
	}

	return name, nil
}

// Rounds returns a copy of the configured rounds in declaration order.
func (t RoundTable) Rounds() []Round {
	out := make([]Round, len(t.rounds))
	copy(out, t.rounds)

	return out
}

// Len returns the number of rounds in the table.
func (t RoundTable) Len() int {
	return len(t.rounds)
}

// DefaultRounds returns the rounds of the Gitcoin Grants Alpha Round.
func DefaultRounds() []Round {
	return []Round{
		{Address: "0x1b165fe4da6bc58ab8370ddc763d367d29f50ef0", Name: "Climate Solutions"},
		{Address: "0xd95a1969c41112cee9a2c931e849bcef36a16f4c", Name: "Open Source Software"},
		{Address: "0xe575282b376e3c9886779a841a2510f1dd8c2ce4", Name: "Ethereum Infrastructure"},
	}
}
