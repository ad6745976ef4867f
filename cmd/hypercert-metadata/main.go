// Package main provides the CLI entrypoint for hypercert-metadata.
//
// hypercert-metadata turns a Gitcoin Grants round application export into
// hypercert metadata files:
//   - Reads each application from the export CSV
//   - Keeps only projects listed in the canonical project registry
//   - Applies curated work scopes from the override table
//   - Writes one JSON metadata file per project
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
