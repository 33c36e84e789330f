package convo

import (
	"context"
	"errors"

	ai "github.com/spindlehq/spindle"
	"github.com/spindlehq/spindle/extract"
	"github.com/spindlehq/spindle/segment"
)

// Send delivers one user message and drives the conversation until a
// model turn yields no tool call. Continuations requested by the
// dispatcher are drained from a task queue rather than recursing, so
// depth is bounded no matter how many tool rounds occur. Send returns
// once the conversation is idle again; only one Send may run at a time.
func (s *Session) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	s.pending = 0
	s.dupContinued = false

	s.turns.Append(ai.NewMessage(ai.RoleUser, text))

	s.pending = 1
	for s.pending > 0 {
		s.pending--
		if err := s.runTurn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// requestContinuation enqueues one more model turn. Duplicate-skipped
// tool calls may request continuation at most once per Send, so a model
// that keeps emitting an already-executed call cannot spin the loop.
func (s *Session) requestContinuation(fromDuplicate bool) {
	if fromDuplicate {
		if s.dupContinued {
			s.logger.Debug().Msg("suppressing duplicate continuation")
			return
		}
		s.dupContinued = true
	}
	s.pending++
}

// runTurn performs one generation round: invoke the model over the
// bounded context window, then either dispatch a detected tool call or
// finalize the text for display. A transport failure aborts only this
// turn; no partial turn is appended.
func (s *Session) runTurn(ctx context.Context) error {
	settings := s.Settings()

	window := append([]ai.Message{s.systemTurn(settings)}, s.turns.Last(s.window)...)

	var (
		text     string
		streamID string
		err      error
	)
	if settings.Streaming {
		text, streamID, err = s.generateStreaming(ctx, window, settings)
	} else {
		text, err = s.generate(ctx, window)
	}
	if err != nil {
		if streamID != "" {
			s.renderer.StreamDiscard(streamID)
		}
		if ai.IsCancellation(err) {
			s.logger.Warn().Err(err).Msg("generation cancelled")
			s.renderer.Error("Generation was cancelled.")
			return nil
		}
		s.logger.Error().Err(err).Msg("generation failed")
		s.renderer.Error("Generation failed: " + err.Error())
		return nil
	}

	raw, found := extract.Extract(text)
	if !found {
		s.finalize(text, streamID, settings)
		return nil
	}

	// Preserve the literal call in the history for model context, but
	// never display it as a chat message.
	s.turns.Append(ai.NewMessage(ai.RoleAssistant, text))
	if streamID != "" {
		s.renderer.StreamDiscard(streamID)
	}

	call, perr := ai.ParseToolCall(raw)
	if perr != nil {
		var unknown *ai.UnknownToolError
		if errors.As(perr, &unknown) {
			s.appendErrorTurn("Unknown tool " + unknown.Name + "; available tools are web_search, read_url, and instant_answer.")
		} else {
			s.appendErrorTurn("Invalid tool arguments: " + perr.Error())
		}
		s.requestContinuation(false)
		return nil
	}

	s.dispatch(ctx, call)
	return nil
}

func (s *Session) generate(ctx context.Context, window []ai.Message) (string, error) {
	resp, err := s.gen.Generate(ctx, window)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// generateStreaming consumes the event stream, re-segmenting the
// accumulated text on every delta so the renderer's placeholder tracks
// the reasoning/answer structure as it arrives.
func (s *Session) generateStreaming(ctx context.Context, window []ai.Message, settings ai.Settings) (string, string, error) {
	ch, err := s.gen.GenerateStream(ctx, window)
	if err != nil {
		return "", "", err
	}

	id := s.renderer.StreamStart()
	seg := segment.New(s.grammar)

	var buf string
	for ev := range ch {
		if ev.Err != nil {
			return "", id, ev.Err
		}
		if ev.Delta != "" {
			buf += ev.Delta
			if settings.EnableCoT {
				res := seg.Segment(buf, true)
				s.renderer.StreamUpdate(id, segment.Format(res, settings.ShowThinking))
			} else {
				s.renderer.StreamUpdate(id, buf)
			}
		}
		if ev.Done && ev.Response != nil {
			buf = ev.Response.Content
		}
	}
	return buf, id, nil
}

// finalize displays a no-tool-call turn and appends the canonical
// unsegmented text to the history.
func (s *Session) finalize(text, streamID string, settings ai.Settings) {
	display := text
	if settings.EnableCoT {
		seg := segment.New(s.grammar)
		res := seg.Segment(text, false)
		display = segment.Format(res, settings.ShowThinking)
	}

	if streamID != "" {
		s.renderer.StreamEnd(streamID, display)
	} else {
		s.renderer.Message(ai.Message{
			ID:      ai.GenerateMessageID(),
			Role:    ai.RoleAssistant,
			Content: display,
		})
	}

	s.turns.Append(ai.NewMessage(ai.RoleAssistant, text))
}
