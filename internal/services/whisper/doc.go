// Package whisper runs OpenAI Whisper through uvx and decodes its JSON
// transcript into time-stamped segments.
//
// The package handles:
//   - Building the whisper CLI invocation (model, language, task, decoding
//     knobs, optional word timestamps)
//   - Running it in a scratch output directory
//   - Loading segments (and per-word timing when requested) from the result
//
// Configuration options (model, CUDA) are passed via Config; per-call
// decoding options via Options.
package whisper
