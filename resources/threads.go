package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/cadencehq/cadence-go/core"
)

// Channel identifies the messaging channel a thread lives on.
type Channel string

const (
	ChannelLinkedIn Channel = "linkedin"
	ChannelEmail    Channel = "email"
)

// Thread is a conversation with one lead on one channel.
type Thread struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject,omitempty"`
	Channel   Channel   `json:"channel"`
	LeadID    string    `json:"leadId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ThreadListParams filters List. Zero values are omitted from the query.
type ThreadListParams struct {
	Limit   int
	Cursor  string
	UserID  string
	Channel Channel
}

// ThreadCreateRequest describes a thread to open.
type ThreadCreateRequest struct {
	LeadID  string  `json:"leadId"`
	Channel Channel `json:"channel"`
	Subject string  `json:"subject,omitempty"`
}

// ThreadsService manages conversation threads.
type ThreadsService struct {
	t *core.Transport
}

// List returns threads, newest first.
func (s *ThreadsService) List(ctx context.Context, params *ThreadListParams) ([]Thread, error) {
	q := map[string]any{}
	if params != nil {
		if params.Limit > 0 {
			q["limit"] = params.Limit
		}
		if params.Cursor != "" {
			q["cursor"] = params.Cursor
		}
		if params.UserID != "" {
			q["user_id"] = params.UserID
		}
		if params.Channel != "" {
			q["channel"] = string(params.Channel)
		}
	}
	v, err := s.t.Get(ctx, "/threads", q)
	if err != nil {
		return nil, err
	}
	var out struct {
		Threads []Thread `json:"threads"`
	}
	if err := core.Decode(v, &out); err != nil {
		return nil, err
	}
	return out.Threads, nil
}

// Get fetches one thread by id.
func (s *ThreadsService) Get(ctx context.Context, id string) (*Thread, error) {
	v, err := s.t.Get(ctx, fmt.Sprintf("/threads/%s", id), nil)
	if err != nil {
		return nil, err
	}
	var thread Thread
	if err := core.Decode(v, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// Create opens a new thread with a lead.
func (s *ThreadsService) Create(ctx context.Context, req *ThreadCreateRequest) (*Thread, error) {
	v, err := s.t.Post(ctx, "/threads", req)
	if err != nil {
		return nil, err
	}
	var thread Thread
	if err := core.Decode(v, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// Delete removes a thread.
func (s *ThreadsService) Delete(ctx context.Context, id string) error {
	_, err := s.t.Delete(ctx, fmt.Sprintf("/threads/%s", id), nil)
	return err
}
