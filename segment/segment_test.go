package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment_NoMarkers(t *testing.T) {
	s := New(DefaultGrammar)
	res := s.Segment("The capital of France is Paris.", false)

	assert.False(t, res.Structured)
	assert.False(t, res.Partial)
	assert.Equal(t, "The capital of France is Paris.", res.Answer)
	assert.Empty(t, res.Reasoning)
}

func TestSegment_ReasoningOnly_StreamOpen(t *testing.T) {
	s := New(DefaultGrammar)
	res := s.Segment("Thinking: the question asks about population", true)

	assert.True(t, res.Structured)
	assert.True(t, res.Partial)
	assert.Equal(t, StageReasoning, res.Stage)
	assert.Equal(t, "the question asks about population", res.Reasoning)
	assert.Empty(t, res.Answer)
}

func TestSegment_BothMarkers(t *testing.T) {
	s := New(DefaultGrammar)
	res := s.Segment("Thinking: check the source\nAnswer: about 140,000", false)

	assert.True(t, res.Structured)
	assert.False(t, res.Partial)
	assert.Equal(t, "check the source", res.Reasoning)
	assert.Equal(t, "about 140,000", res.Answer)
}

func TestSegment_BothMarkersWhileOpen_NotPartial(t *testing.T) {
	// Once the answer marker appears the split is stable even though
	// the stream is still delivering answer text.
	s := New(DefaultGrammar)
	res := s.Segment("Thinking: x\nAnswer: partial ans", true)

	assert.True(t, res.Structured)
	assert.False(t, res.Partial)
	assert.Equal(t, "partial ans", res.Answer)
}

func TestSegment_TruncatedStructure_Degraded(t *testing.T) {
	s := New(DefaultGrammar)
	res := s.Segment("Thinking: trailed off and never answered", false)

	assert.False(t, res.Structured)
	assert.True(t, res.Partial)
	assert.Equal(t, "trailed off and never answered", res.Reasoning)
}

func TestSegment_CaseInsensitiveMarkers(t *testing.T) {
	s := New(DefaultGrammar)
	res := s.Segment("thinking: a\nanswer: b", false)

	assert.True(t, res.Structured)
	assert.Equal(t, "a", res.Reasoning)
	assert.Equal(t, "b", res.Answer)
}

func TestSegment_IdempotentOnCompleteText(t *testing.T) {
	s := New(DefaultGrammar)
	text := "Thinking: reason\nAnswer: final"

	first := s.Segment(text, false)
	second := s.Segment(text, false)
	assert.Equal(t, first, second)
}

func TestSegment_AnswerNeverRegresses(t *testing.T) {
	s := New(DefaultGrammar)

	full := s.Segment("Thinking: r\nAnswer: populated", true)
	assert.Equal(t, "populated", full.Answer)

	// A later partial view that re-scans from scratch and momentarily
	// lacks the answer marker must keep the cached answer.
	regressed := s.Segment("Thinking: r", true)
	assert.Equal(t, "populated", regressed.Answer)
}

func TestSegment_PrefixThenFullText(t *testing.T) {
	s := New(DefaultGrammar)

	prefix := s.Segment("Thinking: working through it", true)
	assert.Empty(t, prefix.Answer)

	full := s.Segment("Thinking: working through it\nAnswer: done", false)
	assert.Equal(t, "done", full.Answer)
	assert.Equal(t, "working through it", full.Reasoning)
}

func TestSegment_MarkerAfterCaseGrowingRunes(t *testing.T) {
	// Ⱥ's lowercase form is one byte longer than Ⱥ itself, so any
	// marker search that maps offsets through a lowered copy of the
	// text would slice past the end.
	s := New(DefaultGrammar)
	res := s.Segment(strings.Repeat("Ⱥ", 20)+"Thinking: x", false)

	assert.Equal(t, "x", res.Reasoning)
	assert.Empty(t, res.Answer)
}

func TestSegment_MarkerAfterCaseShrinkingRunes(t *testing.T) {
	// İ's lowercase form is one byte shorter, dragging lowered-copy
	// offsets backwards; both markers must still split cleanly.
	s := New(DefaultGrammar)
	res := s.Segment(strings.Repeat("İ", 100)+"Thinking: r\nAnswer: final", false)

	assert.True(t, res.Structured)
	assert.Equal(t, "r", res.Reasoning)
	assert.Equal(t, "final", res.Answer)
}

func TestSegment_CustomGrammar(t *testing.T) {
	s := New(Grammar{ReasoningMarker: "Step 1:", AnswerMarker: "Final:"})
	res := s.Segment("Step 1: break it down\nFinal: 42", false)

	assert.True(t, res.Structured)
	assert.Equal(t, "break it down", res.Reasoning)
	assert.Equal(t, "42", res.Answer)
}

func TestFormat_ShowThinking(t *testing.T) {
	r := Result{Reasoning: "why", Answer: "what", Structured: true}
	assert.Equal(t, "why\n\nwhat", Format(r, true))
}

func TestFormat_ShowThinking_PartialReasoning(t *testing.T) {
	r := Result{Reasoning: "why", Structured: true, Partial: true, Stage: StageReasoning}
	assert.Equal(t, "why", Format(r, true))
}

func TestFormat_HideThinking(t *testing.T) {
	r := Result{Reasoning: "why", Answer: "what", Structured: true}
	assert.Equal(t, "what", Format(r, false))
}

func TestFormat_HideThinking_NoAnswerYet(t *testing.T) {
	r := Result{Reasoning: "why", Structured: true, Partial: true}
	assert.Equal(t, WorkingPlaceholder, Format(r, false))
}

func TestFormat_Unstructured(t *testing.T) {
	r := Result{Answer: "plain text"}
	assert.Equal(t, "plain text", Format(r, true))
}

func TestFormat_DegradedFallsBackToReasoning(t *testing.T) {
	r := Result{Reasoning: "best effort", Partial: true}
	assert.Equal(t, "best effort", Format(r, false))
}
