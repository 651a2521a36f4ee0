// Package cli implements the command-line interface for visa-bulletin.
//
// The root command resolves a month range, downloads the missing bulletin
// pages into the cache, extracts every issue and writes one output per issue.
// The parse subcommand extracts a single local page and prints its rows,
// which is the quickest way to triage a month that fails to extract.
package cli
