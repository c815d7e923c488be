package core

import (
	"context"
	"fmt"
)

const responsesPath = "/responses"

// responsesAPI is the slice of the responses surface the orchestrator needs.
type responsesAPI interface {
	Create(ctx context.Context, req *ResponseRequest) (*Response, error)
	Get(ctx context.Context, id string, wait int) (*Response, error)
}

// ResponsesService creates and fetches asynchronous responses.
type ResponsesService struct {
	t *Transport
}

// NewResponses builds a ResponsesService over the given transport.
func NewResponses(t *Transport) *ResponsesService {
	return &ResponsesService{t: t}
}

// createResult tolerates both shapes the server uses: create returns a
// response_id field, later fetches return the full object keyed by id.
type createResult struct {
	Response
	ResponseID string `json:"responseId,omitempty"`
}

// Create starts a new response and returns its initial state.
func (s *ResponsesService) Create(ctx context.Context, req *ResponseRequest) (*Response, error) {
	v, err := s.t.Post(ctx, responsesPath, req)
	if err != nil {
		return nil, err
	}
	var out createResult
	if err := Decode(v, &out); err != nil {
		return nil, &Error{Kind: KindServer, Message: err.Error(), Code: "DECODE_ERROR"}
	}
	resp := out.Response
	if resp.ID == "" {
		resp.ID = out.ResponseID
	}
	return &resp, nil
}

// Get fetches the current state of a response. wait is a long-poll hint in
// seconds; the server may hold the request open up to that long before
// answering, and may return earlier or later.
func (s *ResponsesService) Get(ctx context.Context, id string, wait int) (*Response, error) {
	var params map[string]any
	if wait > 0 {
		params = map[string]any{"wait": wait}
	}
	v, err := s.t.Get(ctx, fmt.Sprintf("%s/%s", responsesPath, id), params)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := Decode(v, &resp); err != nil {
		return nil, &Error{Kind: KindServer, Message: err.Error(), Code: "DECODE_ERROR"}
	}
	if resp.ID == "" {
		resp.ID = id
	}
	return &resp, nil
}

// Cancel asks the server to cancel an in-flight response. The server may
// still finish it; callers should keep polling until a terminal status.
func (s *ResponsesService) Cancel(ctx context.Context, id string) (*Response, error) {
	v, err := s.t.Post(ctx, fmt.Sprintf("%s/%s/cancel", responsesPath, id), nil)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := Decode(v, &resp); err != nil {
		return nil, &Error{Kind: KindServer, Message: err.Error(), Code: "DECODE_ERROR"}
	}
	return &resp, nil
}
