package resources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cadencehq/cadence-go/core"
)

// Sequence is a multi-step outreach campaign. Its state machine runs
// server-side; the client only reads it.
type Sequence struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Steps  int    `json:"steps,omitempty"`
}

// SequenceCreateRequest describes a sequence to create.
type SequenceCreateRequest struct {
	Name     string  `json:"name"`
	Channel  Channel `json:"channel"`
	StepGapH int     `json:"stepGapHours,omitempty"`
}

// SequencesService manages outreach sequences.
type SequencesService struct {
	t *core.Transport
}

// Create creates a sequence. idempotencyKey may be empty, in which case the
// transport generates one.
func (s *SequencesService) Create(ctx context.Context, req *SequenceCreateRequest, idempotencyKey string) (*Sequence, error) {
	v, err := s.t.Request(ctx, http.MethodPost, "/sequences", &core.RequestOptions{
		Body:           req,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	var seq Sequence
	if err := core.Decode(v, &seq); err != nil {
		return nil, err
	}
	return &seq, nil
}

// AddLeads enrolls leads into a sequence.
func (s *SequencesService) AddLeads(ctx context.Context, sequenceID string, leadIDs []string, idempotencyKey string) error {
	_, err := s.t.Request(ctx, http.MethodPost, fmt.Sprintf("/sequences/%s/leads", sequenceID), &core.RequestOptions{
		Body:           map[string]any{"leadIds": leadIDs},
		IdempotencyKey: idempotencyKey,
	})
	return err
}

// Pause stops a sequence from sending further steps.
func (s *SequencesService) Pause(ctx context.Context, sequenceID string) (*Sequence, error) {
	v, err := s.t.Post(ctx, fmt.Sprintf("/sequences/%s/pause", sequenceID), nil)
	if err != nil {
		return nil, err
	}
	var seq Sequence
	if err := core.Decode(v, &seq); err != nil {
		return nil, err
	}
	return &seq, nil
}
