// Package subtitles turns Whisper segments into timed subtitle records and
// serialises them as delimited text, SRT, and JSON.
//
// A Builder pairs one granularity Policy (word, phrase, or segment) with the
// shared offset and rounding rules. Emitters are independent; WriteFile
// replaces each output atomically so a failed format never leaves a
// truncated file behind.
package subtitles
