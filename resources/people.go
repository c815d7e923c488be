package resources

import (
	"context"

	"github.com/cadencehq/cadence-go/core"
)

// Person is one result from people search.
type Person struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Title       string `json:"title,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Location    string `json:"location,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
	Email       string `json:"email,omitempty"`
}

// PersonFilter narrows a people search. Zero values are omitted from the
// request body.
type PersonFilter struct {
	Title         string `json:"title,omitempty"`
	CompanyName   string `json:"companyName,omitempty"`
	CompanyDomain string `json:"companyDomain,omitempty"`
	Location      string `json:"location,omitempty"`
	Seniority     string `json:"seniority,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

// PeopleService searches the platform's people database.
type PeopleService struct {
	t *core.Transport
}

// Search runs a filtered people search.
func (s *PeopleService) Search(ctx context.Context, filter *PersonFilter) ([]Person, error) {
	v, err := s.t.Post(ctx, "/people/search", filter)
	if err != nil {
		return nil, err
	}
	var out struct {
		Results []Person `json:"results"`
	}
	if err := core.Decode(v, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}
