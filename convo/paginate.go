package convo

import (
	"context"
	"fmt"
	"strings"

	ai "github.com/spindlehq/spindle"
)

// paginationCursor tracks one read_url call's progress through fetched
// content. It is ephemeral: it lives only for the duration of the call
// and advances monotonically by chunkSize.
type paginationCursor struct {
	url       string
	offset    int
	chunkSize int
}

// paginate slices fetched content into chunks, appending a turn per
// chunk, and asks the model after each non-terminal chunk whether to
// continue. The iteration count is bounded by ceil(remaining/chunkSize)
// even if every decision is affirmative; any unparseable or failed
// decision stops pagination.
func (s *Session) paginate(ctx context.Context, cur paginationCursor, content string) {
	if cur.chunkSize <= 0 {
		cur.chunkSize = ai.DefaultReadChunkSize
	}
	if cur.offset < 0 {
		cur.offset = 0
	}

	runes := []rune(content)
	total := len(runes)

	if cur.offset >= total {
		s.turns.Append(ai.NewMessage(ai.RoleAssistant,
			fmt.Sprintf("%s has no content at offset %d (total length %d characters).", cur.url, cur.offset, total)))
		return
	}

	maxIter := (total - cur.offset + cur.chunkSize - 1) / cur.chunkSize

	for i := 0; i < maxIter; i++ {
		end := cur.offset + cur.chunkSize
		if end > total {
			end = total
		}
		chunk := string(runes[cur.offset:end])
		hasMore := end < total

		marker := "[end of content]"
		if hasMore {
			marker = "[more content available]"
		}
		s.turns.Append(ai.NewMessage(ai.RoleAssistant, fmt.Sprintf(
			"Content of %s (characters %d-%d of %d):\n\n%s\n\n%s",
			cur.url, cur.offset, end, total, chunk, marker)))

		if !hasMore {
			return
		}
		if !s.shouldContinueReading(ctx, cur.url, chunk) {
			s.logger.Debug().Str("url", cur.url).Int("offset", end).Msg("pagination stopped")
			return
		}
		cur.offset = end
	}
}

// shouldContinueReading asks the model a narrowly-scoped yes/no
// question using only the current chunk as context, which bounds the
// decision cost and keeps unrelated history out of the judgment. Any
// transport error or non-affirmative reply means stop.
func (s *Session) shouldContinueReading(ctx context.Context, url, chunk string) bool {
	prompt := fmt.Sprintf(
		"Here is a portion of the content of %s:\n\n%s\n\nMore content is available. Should I keep reading? Answer yes or no.",
		url, chunk)

	resp, err := s.gen.Generate(ctx,
		[]ai.Message{{Role: ai.RoleUser, Content: prompt}},
		ai.WithMaxTokens(8))
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("pagination decision failed, stopping")
		return false
	}
	return isAffirmative(resp.Content)
}

// isAffirmative reports whether a reply starts with an affirmative
// token, case-insensitively and ignoring trailing punctuation.
func isAffirmative(reply string) bool {
	fields := strings.Fields(reply)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(strings.Trim(fields[0], ".,!:;"))
	return first == "yes" || first == "y"
}
