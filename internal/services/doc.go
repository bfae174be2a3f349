// Package services defines shared utilities consumed by the pipeline phases
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp phase names and per-run correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (missing input, external tool, configuration) for reporting.
//   - A diagnostic Chain helper that unrolls wrapped errors for the top-level
//     failure report.
//
// Use these helpers when wiring new phase logic so operational behaviour (error
// handling, observability) stays uniform across the pipeline.
package services
