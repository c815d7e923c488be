// Package core provides the Cadence SDK client and types.
package core

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn sent when creating a response.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Status is the lifecycle state of a remote response.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further state transitions can occur.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ToolCall records a single tool invocation made by the server while
// producing a response. Arguments are an opaque argument map.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ProgressEntry is one unit of the append-only activity log the server
// maintains for an asynchronous response. Entries are immutable once
// observed; the sequence itself only grows.
type ProgressEntry struct {
	Timestamp  time.Time  `json:"timestamp,omitempty"`
	State      string     `json:"state"`
	Message    string     `json:"message"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
	OutputText string     `json:"outputText,omitempty"`
}

// States used for entries the client synthesizes while streaming.
// They never come from the server.
const (
	// StateToolUpdate marks an entry carrying tool calls that were appended
	// to an already-emitted progress entry.
	StateToolUpdate = "tool_update"
	// StateCompleted marks the final entry carrying the response output text.
	StateCompleted = "completed"
)

// Response is the remote response object as observed by the client.
// The client never mutates it; it only re-fetches and re-reads it.
type Response struct {
	ID         string          `json:"id"`
	Status     Status          `json:"status"`
	Progress   []ProgressEntry `json:"progress,omitempty"`
	OutputText string          `json:"outputText,omitempty"`
}

// ResponseRequest describes a response to create.
type ResponseRequest struct {
	Messages []Message      `json:"messages"`
	ThreadID string         `json:"threadId,omitempty"`
	SkillID  string         `json:"skillId,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
