package core

import (
	"context"
	"io"
	"time"
)

// messagePreviewLen bounds the message excerpt carried by synthesized
// tool_update entries.
const messagePreviewLen = 50

// StreamOptions configures InvokeStream.
type StreamOptions struct {
	// PollInterval is the sleep between fetches. Defaults to DefaultPollInterval.
	PollInterval time.Duration

	// Wait is the long-poll hint in seconds. Defaults to DefaultLongPollWait.
	Wait int
}

// InvokeStream creates a response and returns a stream of its progress
// entries. The stream is single-pass and non-restartable; stopping calling
// Recv is the cancellation mechanism (no background goroutine exists).
func (c *Client) InvokeStream(ctx context.Context, req *ResponseRequest, opts *StreamOptions) (*ProgressStream, error) {
	created, err := c.responses.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return newProgressStream(c.responses, created.ID, opts), nil
}

type streamState int

const (
	streamPolling streamState = iota
	streamDone
)

// ProgressStream is a pull-based, single-pass feed of progress entries for
// one response. All suspension (long-poll fetches and inter-poll sleeps)
// happens inside Recv; polls are strictly sequential, and entries are
// delivered in the order the server appended them.
//
// Beyond the server's own entries, the stream synthesizes two kinds:
//   - tool_update entries, when an already-delivered entry gains tool calls
//     in a later poll. They carry only the newly appended calls plus a short
//     preview of the original message, so a UI can show incremental tool
//     activity without re-printing the message.
//   - one final completed entry carrying the output text, when the response
//     terminates successfully.
type ProgressStream struct {
	api          responsesAPI
	id           string
	pollInterval time.Duration
	wait         int

	state   streamState
	polled  bool
	pending []*ProgressEntry
	seen    int         // server entries already delivered
	tools   map[int]int // entry position -> tool calls already delivered
	err     error
}

func newProgressStream(api responsesAPI, id string, opts *StreamOptions) *ProgressStream {
	o := StreamOptions{}
	if opts != nil {
		o = *opts
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Wait <= 0 {
		o.Wait = DefaultLongPollWait
	}
	return &ProgressStream{
		api:          api,
		id:           id,
		pollInterval: o.PollInterval,
		wait:         o.Wait,
		tools:        make(map[int]int),
	}
}

// ID returns the id of the response being streamed.
func (s *ProgressStream) ID() string {
	return s.id
}

// Recv returns the next progress entry, blocking across long-poll fetches
// and inter-poll sleeps as needed. It returns io.EOF once the response has
// terminated and every entry has been delivered. Any transport error ends
// the stream and is returned both from the failing call and from Err.
func (s *ProgressStream) Recv(ctx context.Context) (*ProgressEntry, error) {
	for {
		if len(s.pending) > 0 {
			entry := s.pending[0]
			s.pending = s.pending[1:]
			return entry, nil
		}
		if s.state == streamDone {
			if s.err != nil {
				return nil, s.err
			}
			return nil, io.EOF
		}

		if s.polled {
			if err := sleepContext(ctx, s.pollInterval); err != nil {
				return nil, s.fail(err)
			}
		}
		resp, err := s.api.Get(ctx, s.id, s.wait)
		if err != nil {
			return nil, s.fail(err)
		}
		s.polled = true
		s.ingest(resp)

		if resp.Status.Terminal() {
			if resp.Status == StatusSucceeded && resp.OutputText != "" {
				s.pending = append(s.pending, &ProgressEntry{
					Timestamp:  time.Now(),
					State:      StateCompleted,
					OutputText: resp.OutputText,
				})
			}
			s.state = streamDone
		}
	}
}

// Err returns the error that terminated the stream, if any.
func (s *ProgressStream) Err() error {
	return s.err
}

func (s *ProgressStream) fail(err error) error {
	s.err = err
	s.state = streamDone
	return err
}

// ingest diffs a freshly fetched response against what has already been
// delivered. The progress sequence is append-only, so new entries are
// exactly the tail past s.seen; tool-call growth on earlier entries becomes
// synthetic tool_update entries.
func (s *ProgressStream) ingest(resp *Response) {
	prevSeen := s.seen

	for i := prevSeen; i < len(resp.Progress); i++ {
		entry := resp.Progress[i]
		s.pending = append(s.pending, &entry)
		s.tools[i] = len(entry.ToolCalls)
	}
	s.seen = len(resp.Progress)

	for i := 0; i < prevSeen && i < len(resp.Progress); i++ {
		entry := resp.Progress[i]
		delivered := s.tools[i]
		if len(entry.ToolCalls) <= delivered {
			continue
		}
		newCalls := entry.ToolCalls[delivered:]
		s.pending = append(s.pending, &ProgressEntry{
			Timestamp: entry.Timestamp,
			State:     StateToolUpdate,
			Message:   previewMessage(entry.Message),
			ToolCalls: newCalls,
		})
		s.tools[i] = len(entry.ToolCalls)
	}
}

func previewMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) <= messagePreviewLen {
		return msg
	}
	return string(runes[:messagePreviewLen]) + "..."
}
