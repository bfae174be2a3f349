// Package diacritics adds Arabic short-vowel marks (harakat) to subtitle
// text on a best-effort basis.
//
// The Adapter never fails: when the engine errors, returns the wrong number
// of lines, or the context is cancelled, the original text comes back
// unchanged together with a Result describing why marks were skipped.
// CommandEngine drives Mishkal through uvx, one process per batch.
package diacritics
