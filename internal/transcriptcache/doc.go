// Package transcriptcache persists Whisper transcripts in SQLite so a rerun
// over the same video with the same decoding settings can skip audio
// extraction and transcription.
//
// Entries are keyed by the video's SHA-256 plus every setting that changes
// Whisper output. The cache is opt-in; when disabled the pipeline never
// opens the database.
package transcriptcache
