package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func fastStreamOptions() *StreamOptions {
	return &StreamOptions{PollInterval: time.Millisecond, Wait: 10}
}

func drainStream(t *testing.T, s *ProgressStream) []*ProgressEntry {
	t.Helper()
	var entries []*ProgressEntry
	for {
		entry, err := s.Recv(context.Background())
		if err == io.EOF {
			return entries
		}
		if err != nil {
			t.Fatalf("Recv() error = %v", err)
		}
		entries = append(entries, entry)
	}
}

func TestStreamDiffing(t *testing.T) {
	e0 := ProgressEntry{State: "working", Message: "Researching the lead"}
	e1 := ProgressEntry{State: "working", Message: "Drafting"}

	e0WithTool := e0
	e0WithTool.ToolCalls = []ToolCall{{Name: "people_search", Arguments: map[string]any{"company": "Initech"}}}

	api := &scriptedResponses{
		gets: []scriptedGet{
			{resp: &Response{ID: "r1", Status: StatusInProgress}},
			{resp: &Response{ID: "r1", Status: StatusInProgress, Progress: []ProgressEntry{e0, e1}}},
			{resp: &Response{ID: "r1", Status: StatusInProgress, Progress: []ProgressEntry{e0, e1}}},
			{resp: &Response{ID: "r1", Status: StatusInProgress, Progress: []ProgressEntry{e0WithTool, e1}}},
			{resp: &Response{ID: "r1", Status: StatusSucceeded, Progress: []ProgressEntry{e0WithTool, e1}, OutputText: "all set"}},
		},
	}

	entries := drainStream(t, newProgressStream(api, "r1", fastStreamOptions()))

	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4: %+v", len(entries), entries)
	}
	if entries[0].Message != e0.Message || entries[1].Message != e1.Message {
		t.Errorf("first two entries = %+v, want e0 then e1", entries[:2])
	}
	if entries[2].State != StateToolUpdate {
		t.Fatalf("entries[2].State = %q, want tool_update", entries[2].State)
	}
	if len(entries[2].ToolCalls) != 1 || entries[2].ToolCalls[0].Name != "people_search" {
		t.Errorf("tool_update calls = %+v, want only the new call", entries[2].ToolCalls)
	}
	if entries[3].State != StateCompleted {
		t.Fatalf("entries[3].State = %q, want completed", entries[3].State)
	}
	if entries[3].OutputText != "all set" {
		t.Errorf("completed OutputText = %q, want all set", entries[3].OutputText)
	}
}

func TestStreamHappyPath(t *testing.T) {
	working := ProgressEntry{State: "working", Message: "Thinking..."}
	api := &scriptedResponses{
		gets: []scriptedGet{
			{resp: &Response{ID: "r1", Status: StatusInProgress, Progress: []ProgressEntry{working}}},
			{resp: &Response{ID: "r1", Status: StatusSucceeded, Progress: []ProgressEntry{working}, OutputText: "done"}},
		},
	}

	entries := drainStream(t, newProgressStream(api, "r1", fastStreamOptions()))

	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].State != "working" || entries[0].Message != "Thinking..." {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].State != StateCompleted || entries[1].OutputText != "done" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestStreamSinglePass(t *testing.T) {
	api := &scriptedResponses{
		gets: []scriptedGet{
			{resp: &Response{ID: "r1", Status: StatusSucceeded, OutputText: "x"}},
		},
	}
	s := newProgressStream(api, "r1", fastStreamOptions())
	drainStream(t, s)

	fetchesAfter := api.getCalls
	for i := 0; i < 3; i++ {
		if _, err := s.Recv(context.Background()); err != io.EOF {
			t.Fatalf("Recv() after done = %v, want io.EOF", err)
		}
	}
	if api.getCalls != fetchesAfter {
		t.Error("Recv() after done must not poll again")
	}
}

func TestStreamNoCompletedEntryOnFailure(t *testing.T) {
	api := &scriptedResponses{
		gets: []scriptedGet{
			{resp: &Response{ID: "r1", Status: StatusFailed}},
		},
	}
	entries := drainStream(t, newProgressStream(api, "r1", fastStreamOptions()))
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want none for a failed response", entries)
	}
}

func TestStreamToolUpdatePreviewTruncation(t *testing.T) {
	long := strings.Repeat("reach out to the VP of engineering about onboarding ", 3)
	first := ProgressEntry{State: "working", Message: long}
	withTool := first
	withTool.ToolCalls = []ToolCall{{Name: "draft_email"}}

	api := &scriptedResponses{
		gets: []scriptedGet{
			{resp: &Response{ID: "r1", Status: StatusInProgress, Progress: []ProgressEntry{first}}},
			{resp: &Response{ID: "r1", Status: StatusInProgress, Progress: []ProgressEntry{withTool}}},
			{resp: &Response{ID: "r1", Status: StatusCancelled, Progress: []ProgressEntry{withTool}}},
		},
	}

	entries := drainStream(t, newProgressStream(api, "r1", fastStreamOptions()))
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	update := entries[1]
	if update.State != StateToolUpdate {
		t.Fatalf("State = %q, want tool_update", update.State)
	}
	want := string([]rune(long)[:50]) + "..."
	if update.Message != want {
		t.Errorf("Message = %q, want %q", update.Message, want)
	}
}

func TestStreamShortMessageNotTruncated(t *testing.T) {
	if got := previewMessage("short"); got != "short" {
		t.Errorf("previewMessage(short) = %q", got)
	}
	exactly := strings.Repeat("a", 50)
	if got := previewMessage(exactly); got != exactly {
		t.Errorf("previewMessage(50 chars) = %q, want unchanged", got)
	}
}

func TestStreamErrorEndsStream(t *testing.T) {
	wantErr := &Error{Kind: KindServer, Message: "boom", StatusCode: 503}
	api := &scriptedResponses{
		gets: []scriptedGet{
			{resp: &Response{ID: "r1", Status: StatusInProgress, Progress: []ProgressEntry{{State: "working", Message: "m"}}}},
			{err: wantErr},
		},
	}

	s := newProgressStream(api, "r1", fastStreamOptions())
	ctx := context.Background()

	if _, err := s.Recv(ctx); err != nil {
		t.Fatalf("first Recv() error = %v", err)
	}
	_, err := s.Recv(ctx)
	if !errors.Is(err, ErrServer) {
		t.Fatalf("Recv() error = %v, want the fetch error", err)
	}
	if s.Err() == nil {
		t.Error("Err() = nil after failure")
	}
	if _, err := s.Recv(ctx); !errors.Is(err, ErrServer) {
		t.Errorf("Recv() after failure = %v, want the same error, not EOF", err)
	}
}

func TestStreamLongPollHint(t *testing.T) {
	api := &scriptedResponses{
		gets: []scriptedGet{
			{resp: &Response{ID: "r1", Status: StatusSucceeded}},
		},
	}
	s := newProgressStream(api, "r1", &StreamOptions{PollInterval: time.Millisecond, Wait: 12})
	drainStream(t, s)

	if len(api.waits) != 1 || api.waits[0] != 12 {
		t.Errorf("waits = %v, want [12]", api.waits)
	}
}
