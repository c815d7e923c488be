package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// ProgressPrinter turns the full response objects delivered to an
// Invoke progress callback into incremental console-style output. Invoke
// hands the callback the entire response on every poll, so the printer
// remembers which state:message pairs and which tool calls per message it
// has already surfaced and only writes genuinely new ones.
//
// It is display-only: it never returns an error and swallows write
// failures. Not safe for concurrent use; confine one printer to one
// polling session.
type ProgressPrinter struct {
	w         io.Writer
	seen      map[string]struct{}
	seenTools map[string]map[string]struct{}
}

// NewProgressPrinter creates a printer writing to w.
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{
		w:         w,
		seen:      make(map[string]struct{}),
		seenTools: make(map[string]map[string]struct{}),
	}
}

// Update processes the current response object. Pass it as
// InvokeOptions.OnProgress.
func (p *ProgressPrinter) Update(resp *Response) {
	if resp == nil {
		return
	}
	for _, entry := range resp.Progress {
		key := entry.State + ":" + entry.Message
		if _, ok := p.seen[key]; !ok {
			p.seen[key] = struct{}{}
			fmt.Fprintf(p.w, "[%s] %s\n", entry.State, entry.Message)
		}
		for _, call := range entry.ToolCalls {
			sig := toolSignature(call)
			tools := p.seenTools[key]
			if tools == nil {
				tools = make(map[string]struct{})
				p.seenTools[key] = tools
			}
			if _, ok := tools[sig]; ok {
				continue
			}
			tools[sig] = struct{}{}
			fmt.Fprintf(p.w, "  -> %s(%s)\n", call.Name, compactArgs(call.Arguments))
		}
	}
}

// toolSignature identifies one tool call within a message. Go maps marshal
// with sorted keys, so the signature is deterministic.
func toolSignature(call ToolCall) string {
	return call.Name + ":" + compactArgs(call.Arguments)
}

func compactArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return string(raw)
}
