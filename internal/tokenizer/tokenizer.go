// Package tokenizer maps input text to the integer token IDs consumed by
// the acoustic model. The primary implementation wraps a SentencePiece
// model so token counts match what the exported ONNX graphs expect.
package tokenizer

// Tokenizer encodes text into token IDs.
//
// Encode must be deterministic: the segmenter re-measures candidate chunks
// repeatedly and relies on the same text always producing the same IDs.
type Tokenizer interface {
	Encode(text string) ([]int64, error)
}
