// Package extract locates tool-call payloads embedded in raw or
// partially-streamed model output. Model text is unreliable: the call
// may be wrapped in prose, fenced in a markdown code block, or sit next
// to incidental JSON-looking fragments. Extraction is a pure function
// over text; malformed JSON is never an error, only "no call found".
package extract

import (
	"encoding/json"
	"strings"

	"github.com/spindlehq/spindle"
)

const fence = "```"

// Extract scans text for an embedded tool-call payload and returns the
// first one found. Two strategies run in order: fenced JSON blocks
// first, so intentionally-fenced calls win over incidental JSON in
// prose, then a balanced-brace scan over the whole text.
func Extract(text string) (spindle.RawToolCall, bool) {
	if call, ok := fromFencedBlocks(text); ok {
		return call, true
	}
	return fromBraceScan(text)
}

// fromFencedBlocks tries each ```json fenced block in order.
func fromFencedBlocks(text string) (spindle.RawToolCall, bool) {
	rest := text
	for {
		open := strings.Index(rest, fence)
		if open < 0 {
			return spindle.RawToolCall{}, false
		}
		rest = rest[open+len(fence):]

		// The fence tag is whatever sits between ``` and the newline.
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return spindle.RawToolCall{}, false
		}
		tag := strings.ToLower(strings.TrimSpace(rest[:nl]))
		body := rest[nl+1:]

		closing := strings.Index(body, fence)
		if closing < 0 {
			return spindle.RawToolCall{}, false
		}
		rest = body[closing+len(fence):]

		if tag != "json" {
			continue
		}
		if call, ok := parseCandidate(body[:closing]); ok {
			return call, true
		}
	}
}

// fromBraceScan walks the text left to right. At each opening brace it
// tracks depth until the brace balances, then attempts to parse that
// exact substring. A parse failure abandons the substring and the scan
// continues at the next opening brace.
func fromBraceScan(text string) (spindle.RawToolCall, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		depth := 0
		for j := i; j < len(text); j++ {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				if call, ok := parseCandidate(text[i : j+1]); ok {
					return call, true
				}
				break
			}
		}
	}
	return spindle.RawToolCall{}, false
}

// parseCandidate accepts a substring iff it parses as a JSON object
// with a non-empty tool field and a present, non-null arguments object.
func parseCandidate(s string) (spindle.RawToolCall, bool) {
	var probe struct {
		Tool      string         `json:"tool"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &probe); err != nil {
		return spindle.RawToolCall{}, false
	}
	if probe.Tool == "" || probe.Arguments == nil {
		return spindle.RawToolCall{}, false
	}
	return spindle.RawToolCall{Tool: probe.Tool, Arguments: probe.Arguments}, true
}
