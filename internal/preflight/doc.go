// Package preflight provides readiness checks for the external tools and
// filesystem paths subextract depends on.
//
// The "check" command renders these results as a table. Each check is
// gated by its config toggle; the Mishkal and cache checks only run when
// the corresponding feature is enabled.
package preflight
