// Package application decodes the round application payload embedded in
// each exported CSV row.
//
// The payload is the JSON document a project submitted to a Gitcoin round.
// It may arrive as a JSON object or as a JSON string that itself contains
// the object (double encoding); both are decoded with encoding/json only,
// never evaluated.
//
// Only the fields needed to build hypercert metadata are modelled. Required
// fields are those whose absence makes a record impossible to build:
// application.round, application.recipient, application.answers,
// application.project.title, application.project.description and
// application.project.website. Present-but-empty values are accepted.
package application
