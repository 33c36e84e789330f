// Package segment splits model output into a reasoning segment and a
// final answer segment according to a textual marker convention, and
// keeps that view stable while a stream is still arriving. The grammar
// is resolved once at construction; callers re-segment the full
// accumulated text on every increment, which is cheap at conversation
// scale and keeps the function free of append-only parsing state.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WorkingPlaceholder is rendered in place of the answer while the
// model is still reasoning and reasoning display is disabled.
const WorkingPlaceholder = "working…"

// Stage identifies which segment a partial stream is currently in.
type Stage string

const (
	StageReasoning Stage = "reasoning"
	StageAnswer    Stage = "answer"
)

// Grammar names the markers that delimit the reasoning and answer
// segments. Markers are matched case-insensitively.
type Grammar struct {
	ReasoningMarker string
	AnswerMarker    string
}

// DefaultGrammar matches the "Thinking: ... Answer: ..." convention
// the reasoning prompt instructs the model to follow.
var DefaultGrammar = Grammar{
	ReasoningMarker: "Thinking:",
	AnswerMarker:    "Answer:",
}

// Result is the segmented view of one (possibly partial) model turn.
type Result struct {
	Reasoning string
	Answer    string
	// Structured reports whether the text follows the marker
	// convention. A degraded parse (marker present but truncated
	// before recognizable structure) is reported as unstructured.
	Structured bool
	// Partial reports whether the view may still change as more text
	// arrives.
	Partial bool
	// Stage is set only while Partial and Structured.
	Stage Stage
}

// Segmenter segments one in-flight model turn. It caches the last
// known reasoning and answer so a partial update that momentarily
// loses the answer marker never regresses a populated field to empty.
// A Segmenter is scoped to a single turn; discard it (or call Reset)
// once the turn resolves.
type Segmenter struct {
	grammar       Grammar
	lastReasoning string
	lastAnswer    string
}

// New creates a Segmenter for the given grammar. Zero-value markers
// fall back to DefaultGrammar.
func New(g Grammar) *Segmenter {
	if g.ReasoningMarker == "" {
		g.ReasoningMarker = DefaultGrammar.ReasoningMarker
	}
	if g.AnswerMarker == "" {
		g.AnswerMarker = DefaultGrammar.AnswerMarker
	}
	return &Segmenter{grammar: g}
}

// Reset clears the cached segments for reuse on a new turn.
func (s *Segmenter) Reset() {
	s.lastReasoning = ""
	s.lastAnswer = ""
}

// Segment splits the accumulated text. open reports whether the stream
// is still arriving. Calling Segment repeatedly with the same complete
// text yields identical results.
func (s *Segmenter) Segment(text string, open bool) Result {
	res := s.split(text, open)

	// Never regress a previously-populated segment to empty while the
	// view can still change.
	if res.Answer == "" && s.lastAnswer != "" {
		res.Answer = s.lastAnswer
	}
	if res.Reasoning == "" && s.lastReasoning != "" {
		res.Reasoning = s.lastReasoning
	}
	if res.Reasoning != "" {
		s.lastReasoning = res.Reasoning
	}
	if res.Answer != "" {
		s.lastAnswer = res.Answer
	}
	return res
}

func (s *Segmenter) split(text string, open bool) Result {
	_, rEnd := indexFold(text, s.grammar.ReasoningMarker)
	if rEnd < 0 {
		// No reasoning marker: the whole text is the answer.
		return Result{
			Answer:  strings.TrimSpace(text),
			Partial: open,
		}
	}

	rest := text[rEnd:]
	aStart, aEnd := indexFold(rest, s.grammar.AnswerMarker)
	if aStart >= 0 {
		return Result{
			Reasoning:  strings.TrimSpace(rest[:aStart]),
			Answer:     strings.TrimSpace(rest[aEnd:]),
			Structured: true,
			Stage:      StageAnswer,
		}
	}

	if open {
		return Result{
			Reasoning:  strings.TrimSpace(rest),
			Structured: true,
			Partial:    true,
			Stage:      StageReasoning,
		}
	}

	// Stream closed with a reasoning marker but no answer marker: the
	// structure is truncated. Degraded but non-fatal; keep the text as
	// best-effort reasoning.
	return Result{
		Reasoning: strings.TrimSpace(rest),
		Partial:   true,
	}
}

// Format renders a segmented result for display. When the result is
// structured and reasoning display is enabled, it renders reasoning
// then answer (or just reasoning while partial). With reasoning display
// disabled it renders the answer only, substituting a placeholder until
// the answer exists.
func Format(r Result, showThinking bool) string {
	if !r.Structured {
		if r.Answer != "" {
			return r.Answer
		}
		return r.Reasoning
	}
	if showThinking {
		if r.Answer == "" {
			return r.Reasoning
		}
		if r.Reasoning == "" {
			return r.Answer
		}
		return r.Reasoning + "\n\n" + r.Answer
	}
	if r.Answer == "" {
		return WorkingPlaceholder
	}
	return r.Answer
}

// indexFold locates the first case-insensitive occurrence of substr in
// s and returns its start and end byte offsets, both measured on s
// itself. Case mapping can change a rune's encoded length, so the end
// offset is never derived from len(substr). Returns -1, -1 when absent.
func indexFold(s, substr string) (int, int) {
	if substr == "" {
		return 0, 0
	}
	for i := range s {
		if n, ok := matchFold(s[i:], substr); ok {
			return i, i + n
		}
	}
	return -1, -1
}

// matchFold reports whether s begins with a case-insensitive match of
// prefix, and the byte length of the matched region of s.
func matchFold(s, prefix string) (int, bool) {
	n := 0
	for _, pr := range prefix {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 {
			return 0, false
		}
		if r != pr && unicode.ToLower(r) != unicode.ToLower(pr) {
			return 0, false
		}
		n += size
	}
	return n, true
}
