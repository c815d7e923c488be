// Package resources provides typed request builders for the Cadence
// platform's REST surfaces. Every method builds a path, query, and body and
// delegates to the shared core transport; rate limiting, sequence state
// machines, and draft generation all live server-side.
package resources

import "github.com/cadencehq/cadence-go/core"

// Client bundles the resource services over one transport.
type Client struct {
	Threads   *ThreadsService
	People    *PeopleService
	Sequences *SequencesService
	Accounts  *AccountsService
}

// New builds resource services over the given transport.
func New(t *core.Transport) *Client {
	return &Client{
		Threads:   &ThreadsService{t: t},
		People:    &PeopleService{t: t},
		Sequences: &SequencesService{t: t},
		Accounts:  &AccountsService{t: t},
	}
}
