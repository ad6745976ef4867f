// Package metadata builds hypercert metadata records from round
// applications.
//
// A Mapper turns one decoded application into one Record:
//
//   - name, description and external_url are copied verbatim from the project
//   - image and hidden_properties.project_icon use the project logo (ipfs://)
//   - properties list the funding platform, funding round and matching pool
//   - hypercert holds the six schema dimensions (impact_scope, work_scope,
//     work_timeframe, impact_timeframe, contributors, rights)
//   - hidden_properties carry the allowlist, banner, icon and grant page URLs
//
// The matching pool is resolved from the round contract address, and the
// record is only produced when the project registry lists the
// (matching pool, project title, recipient address) triple. Otherwise Map
// returns ErrNotVerified.
//
// Records are serialized with Marshal, which produces indented JSON with
// non-ASCII characters escaped, so output files are byte-stable across runs.
package metadata
