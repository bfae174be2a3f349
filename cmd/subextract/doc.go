// Package main hosts the subextract CLI entrypoint and command graph.
//
// Running the binary with no subcommand extracts subtitles for the
// configured video. The config and check subcommands scaffold, validate,
// and diagnose the environment. All run settings come from the TOML
// configuration; the only global flag selects which file to load.
package main
