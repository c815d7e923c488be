package core

import (
	"strings"
	"testing"
)

func TestProgressPrinterDedup(t *testing.T) {
	var buf strings.Builder
	p := NewProgressPrinter(&buf)

	working := ProgressEntry{State: "working", Message: "Researching"}
	resp := &Response{ID: "r1", Status: StatusInProgress, Progress: []ProgressEntry{working}}

	// Invoke delivers the full response on every poll; repeated updates with
	// the same entries must print nothing new.
	p.Update(resp)
	p.Update(resp)

	if got := strings.Count(buf.String(), "Researching"); got != 1 {
		t.Errorf("message printed %d times, want 1:\n%s", got, buf.String())
	}
}

func TestProgressPrinterNewToolCalls(t *testing.T) {
	var buf strings.Builder
	p := NewProgressPrinter(&buf)

	entry := ProgressEntry{State: "working", Message: "Finding leads"}
	p.Update(&Response{Progress: []ProgressEntry{entry}})

	entry.ToolCalls = []ToolCall{{Name: "people_search", Arguments: map[string]any{"title": "CTO"}}}
	p.Update(&Response{Progress: []ProgressEntry{entry}})
	p.Update(&Response{Progress: []ProgressEntry{entry}})

	out := buf.String()
	if got := strings.Count(out, "people_search"); got != 1 {
		t.Errorf("tool call printed %d times, want 1:\n%s", got, out)
	}
	if !strings.Contains(out, `"title":"CTO"`) {
		t.Errorf("tool arguments missing:\n%s", out)
	}

	// A second call with different arguments is genuinely new.
	entry.ToolCalls = append(entry.ToolCalls, ToolCall{Name: "people_search", Arguments: map[string]any{"title": "VP Sales"}})
	p.Update(&Response{Progress: []ProgressEntry{entry}})
	if got := strings.Count(buf.String(), "people_search"); got != 2 {
		t.Errorf("tool calls printed %d times, want 2:\n%s", got, buf.String())
	}
}

func TestProgressPrinterDistinctStatesSameMessage(t *testing.T) {
	var buf strings.Builder
	p := NewProgressPrinter(&buf)

	p.Update(&Response{Progress: []ProgressEntry{
		{State: "working", Message: "Sending"},
		{State: "done", Message: "Sending"},
	}})

	if got := strings.Count(buf.String(), "Sending"); got != 2 {
		t.Errorf("distinct state:message pairs printed %d times, want 2", got)
	}
}

func TestProgressPrinterNilSafe(t *testing.T) {
	p := NewProgressPrinter(&strings.Builder{})
	p.Update(nil)
}
