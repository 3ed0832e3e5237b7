package text

import (
	"fmt"
	"regexp"
	"strings"
)

// Tokenizer is the minimal interface required by the Segmenter.
// It is satisfied by tokenizer.Tokenizer from the tokenizer package.
type Tokenizer interface {
	Encode(text string) ([]int64, error)
}

// A sentence is a run of non-terminator characters followed by one or more
// sentence terminators. ASCII and full-width terminators are both recognized.
var sentencePattern = regexp.MustCompile(`[^.!?。！？]+[.!?。！？]+`)

// clauseDelims are the characters a sentence is split on when it does not
// fit the token budget whole: comma, full-width comma, ideographic comma.
const clauseDelims = ",，、"

// Segmenter splits input text into chunks whose token counts stay within
// the acoustic model's admissible range. Splitting cascades through
// decreasingly semantic boundaries: sentences, then clauses, then words.
// Each level is only entered when the previous one produced a piece that
// encodes past the token budget.
type Segmenter struct {
	tok       Tokenizer
	maxTokens int
}

// NewSegmenter returns a Segmenter bound to tok with the given token budget.
func NewSegmenter(tok Tokenizer, maxTokens int) *Segmenter {
	return &Segmenter{tok: tok, maxTokens: maxTokens}
}

// Segment splits input into an ordered sequence of non-empty chunks.
//
// Every returned chunk encodes to at most the token budget, with one
// accepted exception: a single word that alone exceeds the budget is
// emitted as its own chunk, since there is no finer boundary to split on.
// Such a chunk fails the synthesizer's token-bound check downstream.
//
// Segment never returns an empty slice for non-empty input. The only error
// it can produce is a tokenizer failure.
func (s *Segmenter) Segment(input string) ([]string, error) {
	sentences := splitSentences(input)
	if len(sentences) == 0 {
		// No sentence punctuation anywhere: treat the whole trimmed input
		// as one sentence and let the cascade handle it.
		if trimmed := strings.TrimSpace(input); trimmed != "" {
			sentences = []string{trimmed}
		}
	}

	var chunks []string

	for _, sentence := range sentences {
		n, err := s.countTokens(sentence)
		if err != nil {
			return nil, err
		}

		if n <= s.maxTokens {
			chunks = append(chunks, sentence)
			continue
		}

		sub, err := s.splitClauses(sentence)
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, sub...)
	}

	if len(chunks) == 0 {
		// Nothing survived (e.g. whitespace-only input). Return the input
		// untouched so callers never see an empty sequence.
		return []string{input}, nil
	}

	return chunks, nil
}

// splitClauses breaks an over-long sentence at clause delimiters, greedily
// merging consecutive clauses back together while the merged text still
// encodes within budget. A lone clause that exceeds the budget by itself is
// handed down to the word-level split.
func (s *Segmenter) splitClauses(sentence string) ([]string, error) {
	clauses := splitOnDelims(sentence, clauseDelims)

	var chunks []string
	var running []string

	for _, clause := range clauses {
		if len(running) > 0 {
			candidate := strings.Join(running, ", ") + ", " + clause

			n, err := s.countTokens(candidate)
			if err != nil {
				return nil, err
			}

			if n <= s.maxTokens {
				running = append(running, clause)
				continue
			}

			// Absorbing this clause would overflow: flush what we have and
			// evaluate the clause on its own below.
			chunks = append(chunks, strings.Join(running, ", "))
			running = running[:0]
		}

		n, err := s.countTokens(clause)
		if err != nil {
			return nil, err
		}

		if n > s.maxTokens {
			words, err := s.splitWords(clause)
			if err != nil {
				return nil, err
			}

			chunks = append(chunks, words...)
			continue
		}

		running = append(running, clause)
	}

	if len(running) > 0 {
		chunks = append(chunks, strings.Join(running, ", "))
	}

	return chunks, nil
}

// splitWords is the last resort: break a clause at whitespace and greedily
// accumulate words within budget. A single word that exceeds the budget on
// its own is emitted anyway and left for the synthesizer to reject.
func (s *Segmenter) splitWords(clause string) ([]string, error) {
	words := strings.Fields(clause)

	var chunks []string
	var running []string

	for _, word := range words {
		if len(running) > 0 {
			candidate := strings.Join(running, " ") + " " + word

			n, err := s.countTokens(candidate)
			if err != nil {
				return nil, err
			}

			if n <= s.maxTokens {
				running = append(running, word)
				continue
			}

			chunks = append(chunks, strings.Join(running, " "))
			running = running[:0]
		}

		n, err := s.countTokens(word)
		if err != nil {
			return nil, err
		}

		if n > s.maxTokens {
			chunks = append(chunks, word)
			continue
		}

		running = append(running, word)
	}

	if len(running) > 0 {
		chunks = append(chunks, strings.Join(running, " "))
	}

	return chunks, nil
}

func (s *Segmenter) countTokens(text string) (int, error) {
	ids, err := s.tok.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("encode %q: %w", text, err)
	}

	return len(ids), nil
}

// splitSentences returns the trimmed, non-empty sentence matches of input,
// with terminators kept attached to their sentence.
func splitSentences(input string) []string {
	var sentences []string

	for _, m := range sentencePattern.FindAllString(input, -1) {
		if s := strings.TrimSpace(m); s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

// splitOnDelims splits s on any rune in delims, trimming whitespace and
// dropping empty pieces.
func splitOnDelims(s, delims string) []string {
	var parts []string

	for _, p := range strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	}) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return parts
}
