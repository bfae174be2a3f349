// Package audio turns a video container into the mono 16 kHz PCM WAV track
// that Whisper consumes.
//
// The extractor probes the container with ffprobe, picks the audio stream
// whose language tag matches the transcription language (falling back to the
// first audio stream), and runs ffmpeg to write the WAV file.
package audio
