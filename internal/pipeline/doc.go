// Package pipeline sequences one subextract run: locate the video, extract
// its audio, transcribe, build subtitles, and write every output format.
//
// The Driver owns the intermediate audio file. Cleanup of that file runs
// after every attempt, successful or not, and its failures are never
// reported as run failures. Collaborators are injected through Deps so
// tests can replace ffmpeg and Whisper with in-process fakes.
package pipeline
