package main

import (
	"fmt"
	"io"
	"strings"

	ai "github.com/spindlehq/spindle"
	"github.com/spindlehq/spindle/convo"
	"github.com/spindlehq/spindle/tool"
)

// terminalRenderer writes conversation output to a terminal. Streaming
// placeholders print incrementally: when an update extends the previous
// content the suffix is appended in place, otherwise the new content
// starts on a fresh line.
type terminalRenderer struct {
	out     io.Writer
	printed map[string]string
}

func newTerminalRenderer(out io.Writer) *terminalRenderer {
	return &terminalRenderer{
		out:     out,
		printed: make(map[string]string),
	}
}

func (r *terminalRenderer) Message(msg ai.Message) {
	fmt.Fprintf(r.out, "\nspindle> %s\n\n", msg.Content)
}

func (r *terminalRenderer) Error(msg string) {
	fmt.Fprintf(r.out, "\nerror: %s\n\n", msg)
}

func (r *terminalRenderer) SearchResults(query string, results []tool.SearchResult) {
	fmt.Fprintf(r.out, "\nSearch results for %q:\n", query)
	for i, res := range results {
		fmt.Fprintf(r.out, "  %d. %s\n     %s\n", i+1, res.Title, res.URL)
		if res.Snippet != "" {
			fmt.Fprintf(r.out, "     %s\n", res.Snippet)
		}
	}
	fmt.Fprintln(r.out)
}

func (r *terminalRenderer) StreamStart() string {
	id := ai.GenerateMessageID()
	r.printed[id] = ""
	fmt.Fprintf(r.out, "\nspindle> ")
	return id
}

func (r *terminalRenderer) StreamUpdate(id, content string) {
	prev, ok := r.printed[id]
	if !ok {
		return
	}
	if strings.HasPrefix(content, prev) {
		fmt.Fprint(r.out, content[len(prev):])
	} else {
		fmt.Fprintf(r.out, "\nspindle> %s", content)
	}
	r.printed[id] = content
}

func (r *terminalRenderer) StreamEnd(id, content string) {
	r.StreamUpdate(id, content)
	delete(r.printed, id)
	fmt.Fprint(r.out, "\n\n")
}

func (r *terminalRenderer) StreamDiscard(id string) {
	if _, ok := r.printed[id]; !ok {
		return
	}
	delete(r.printed, id)
	fmt.Fprintln(r.out)
}

func (r *terminalRenderer) Status(text string) {
	fmt.Fprintf(r.out, "  [%s]\n", text)
}

func (r *terminalRenderer) ClearStatus() {}

var _ convo.Renderer = (*terminalRenderer)(nil)
