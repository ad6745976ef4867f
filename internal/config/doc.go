// Package config holds the immutable configuration of a metadata build:
// input locations, the round table and the fixed defaults of the hypercert
// schema.
//
// Configuration is layered with the following priority (lowest first):
//  1. Built-in defaults (NewDefault)
//  2. YAML file (LoadFile)
//  3. .env file and HYPERCERT_* environment variables (ApplyEnv)
//  4. Command-line flags (applied by the caller)
//
// # File Format
//
//	registry_path: canonical_project_list.json
//	overrides_path: csv/workscope_overrides.csv
//	output_dir: metadata/
//	allowlist_base_url: ipfs://bafy.../
//	workers: 1
//	rounds:
//	  - address: "0x1b165fe4da6bc58ab8370ddc763d367d29f50ef0"
//	    name: Climate Solutions
//	defaults:
//	  version: "1.0.0"
//	  work_start_date: 1663819200
package config
