package core

import (
	"context"
	"fmt"
	"time"
)

// Defaults for the polling orchestration around asynchronous responses.
const (
	// DefaultMaxWait bounds how long Invoke waits for a terminal status.
	DefaultMaxWait = 5 * time.Minute
	// DefaultPollInterval is the sleep between fetches when the response has
	// not terminated yet.
	DefaultPollInterval = 2 * time.Second
	// DefaultLongPollWait is the long-poll hint (seconds) passed to each
	// fetch so the server can push updates within one call.
	DefaultLongPollWait = 10
)

// InvokeOptions configures Invoke.
type InvokeOptions struct {
	// MaxWait is the overall wall-clock deadline. Defaults to DefaultMaxWait.
	MaxWait time.Duration

	// PollInterval is the sleep between fetches. Defaults to DefaultPollInterval.
	PollInterval time.Duration

	// Wait is the long-poll hint in seconds. Defaults to DefaultLongPollWait.
	Wait int

	// OnProgress, if set, is called with the full current response object on
	// every fetch. The callback is responsible for its own deduplication;
	// see ProgressPrinter.
	OnProgress func(*Response)
}

func (o *InvokeOptions) withDefaults() InvokeOptions {
	out := InvokeOptions{}
	if o != nil {
		out = *o
	}
	if out.MaxWait <= 0 {
		out.MaxWait = DefaultMaxWait
	}
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	if out.Wait <= 0 {
		out.Wait = DefaultLongPollWait
	}
	return out
}

// Invoke creates a response and polls until it reaches a terminal status,
// returning the final response object. If the response has not terminated
// within MaxWait, a timeout error carrying the response id is returned; the
// in-flight server work is not cancelled.
//
// Transport-level failures propagate unchanged; the orchestrator itself
// never retries (transient HTTP retries are the transport's job).
func (c *Client) Invoke(ctx context.Context, req *ResponseRequest, opts *InvokeOptions) (*Response, error) {
	return invoke(ctx, c.responses, req, opts)
}

func invoke(ctx context.Context, api responsesAPI, req *ResponseRequest, opts *InvokeOptions) (*Response, error) {
	o := opts.withDefaults()

	created, err := api.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(o.MaxWait)
	for {
		resp, err := api.Get(ctx, created.ID, o.Wait)
		if err != nil {
			return nil, err
		}
		if o.OnProgress != nil {
			o.OnProgress(resp)
		}
		if resp.Status.Terminal() {
			return resp, nil
		}
		if time.Now().After(deadline) {
			return nil, timeoutError(created.ID, o.MaxWait)
		}
		if err := sleepContext(ctx, o.PollInterval); err != nil {
			return nil, err
		}
	}
}

func timeoutError(responseID string, maxWait time.Duration) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("response %s did not complete within %s", responseID, maxWait),
		Code:    "RESPONSE_TIMEOUT",
	}
}
