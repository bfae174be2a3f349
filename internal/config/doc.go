// Package config loads, normalizes, and validates subextract configuration.
//
// Settings are static for a run: they are read once from a TOML file (or the
// repository defaults), normalized, validated, and then handed to the pipeline
// as an immutable value. Paths keep their relative form so output files land
// in the working directory unless the user configures otherwise.
package config
