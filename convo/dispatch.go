package convo

import (
	"context"
	"fmt"
	"strings"

	ai "github.com/spindlehq/spindle"
)

// dispatch executes a parsed tool call exactly once per fingerprint per
// conversation, appends the resulting turns, and requests a loop
// continuation unless the call suppresses it. A duplicate fingerprint
// short-circuits execution but may still continue (at most once per
// Send, see requestContinuation).
func (s *Session) dispatch(ctx context.Context, call ai.ToolCall) {
	fp := call.Fingerprint()
	if _, done := s.executed[fp]; done {
		s.logger.Debug().Str("fingerprint", fp).Msg("skipping duplicate tool call")
		if !call.SkipContinue {
			s.requestContinuation(true)
		}
		return
	}
	s.executed[fp] = struct{}{}

	s.logger.Info().Str("tool", call.Name()).Str("fingerprint", fp).Msg("dispatching tool call")

	switch call.Kind {
	case ai.ToolWebSearch:
		s.runWebSearch(ctx, *call.WebSearch)
	case ai.ToolReadURL:
		s.runReadURL(ctx, *call.ReadURL)
	case ai.ToolInstantAnswer:
		s.runInstantAnswer(ctx, *call.InstantAnswer)
	}

	if !call.SkipContinue {
		s.requestContinuation(false)
	}
}

// runWebSearch executes a search, appends a numbered plain-text summary
// turn for the model, notifies the renderer with the structured
// results, then prefetches each result URL sequentially. A failed
// prefetch is reported and does not abort the remaining fetches.
func (s *Session) runWebSearch(ctx context.Context, args ai.WebSearchArgs) {
	if args.Query == "" {
		s.appendErrorTurn("web_search requires a non-empty query.")
		return
	}
	if s.searcher == nil {
		s.appendErrorTurn("Web search is not available in this session.")
		return
	}

	s.renderer.Status(fmt.Sprintf("Searching for %q…", args.Query))
	defer s.renderer.ClearStatus()

	results, err := s.searcher.Search(ctx, args.Query, args.Engine)
	if err != nil {
		s.appendErrorTurn(fmt.Sprintf("Web search for %q failed: %v", args.Query, err))
		return
	}
	if len(results) == 0 {
		s.turns.Append(ai.NewMessage(ai.RoleAssistant,
			fmt.Sprintf("Web search for %q returned no results.", args.Query)))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n", args.Query)
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n   %s", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "\n   %s", r.Snippet)
		}
	}
	s.turns.Append(ai.NewMessage(ai.RoleAssistant, b.String()))
	s.renderer.SearchResults(args.Query, results)

	for _, r := range results {
		nested := ai.NewReadURLCall(r.URL, 0, s.chunkSize)
		nested.SkipContinue = true
		s.dispatch(ctx, nested)
	}
}

// runReadURL fetches a page and hands its content to the pagination
// controller. A fetch failure completes the call with an error turn and
// no pagination.
func (s *Session) runReadURL(ctx context.Context, args ai.ReadURLArgs) {
	if !strings.HasPrefix(args.URL, "http://") && !strings.HasPrefix(args.URL, "https://") {
		s.appendErrorTurn(fmt.Sprintf("read_url requires an http or https URL, got %q.", args.URL))
		return
	}
	if s.fetcher == nil {
		s.appendErrorTurn("URL reading is not available in this session.")
		return
	}

	s.renderer.Status("Reading " + args.URL + "…")
	defer s.renderer.ClearStatus()

	content, err := s.fetcher.Fetch(ctx, args.URL)
	if err != nil {
		s.appendErrorTurn(fmt.Sprintf("Failed to read %s: %v", args.URL, err))
		return
	}

	s.paginate(ctx, paginationCursor{
		url:       args.URL,
		offset:    args.Start,
		chunkSize: args.Length,
	}, content)
}

// runInstantAnswer looks up a structured instant answer and appends it
// serialized as text.
func (s *Session) runInstantAnswer(ctx context.Context, args ai.InstantAnswerArgs) {
	if args.Query == "" {
		s.appendErrorTurn("instant_answer requires a non-empty query.")
		return
	}
	if s.instant == nil {
		s.appendErrorTurn("Instant answers are not available in this session.")
		return
	}

	s.renderer.Status(fmt.Sprintf("Looking up %q…", args.Query))
	defer s.renderer.ClearStatus()

	raw, err := s.instant.InstantAnswer(ctx, args.Query)
	if err != nil {
		s.appendErrorTurn(fmt.Sprintf("Instant answer lookup for %q failed: %v", args.Query, err))
		return
	}

	s.turns.Append(ai.NewMessage(ai.RoleAssistant,
		fmt.Sprintf("Instant answer for %q:\n%s", args.Query, string(raw))))
}

// appendErrorTurn records an error as a user turn, giving the model
// corrective input, and surfaces it to the renderer.
func (s *Session) appendErrorTurn(msg string) {
	s.logger.Warn().Str("message", msg).Msg("tool error")
	s.turns.Append(ai.NewMessage(ai.RoleUser, msg))
	s.renderer.Error(msg)
}
