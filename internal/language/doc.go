// Package language normalizes the configured transcription language.
//
// Whisper accepts ISO 639-1 codes, while users tend to write BCP 47 tags
// ("ar-EG"), ISO 639-2 codes ("ara"), or plain words ("arabic"). Everything
// is funnelled through WhisperCode so the transcriber only ever sees a
// two-letter code.
package language
