// Package registry loads the canonical project list of a Gitcoin round and
// answers whether a project is active in it.
//
// The registry file maps a matching pool name to the projects accepted
// into that pool:
//
//	{
//	  "Climate Solutions": [
//	    {"title": "Project A", "address": "0xabc..."}
//	  ]
//	}
//
// Verification is exact string equality on both title and address. Hex
// addresses are not case-folded; callers pass values as they appear
// upstream.
package registry
