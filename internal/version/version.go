// SPDX-License-Identifier: MIT

// Package version exposes build metadata injected at link time.
package version

var (
	// Version is the release tag, set via ldflags.
	Version = "dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)
