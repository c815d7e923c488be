package resources

import (
	"context"

	"github.com/cadencehq/cadence-go/core"
)

// Member is one workspace member.
type Member struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// WorkspaceSettings are tenant-wide settings.
type WorkspaceSettings struct {
	DailySendLimit int    `json:"dailySendLimit,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	SendingWindow  string `json:"sendingWindow,omitempty"`
}

// AccountsService administers the tenant workspace. Mutations here affect
// every member, so each one logs a tenant-scope advisory first.
type AccountsService struct {
	t *core.Transport
}

// ListMembers returns the workspace members.
func (s *AccountsService) ListMembers(ctx context.Context) ([]Member, error) {
	v, err := s.t.Get(ctx, "/account/members", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Members []Member `json:"members"`
	}
	if err := core.Decode(v, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

// UpdateSettings updates tenant-wide workspace settings.
func (s *AccountsService) UpdateSettings(ctx context.Context, settings *WorkspaceSettings) (*WorkspaceSettings, error) {
	s.t.WarnTenantScope("account.settings.update")
	v, err := s.t.Patch(ctx, "/account/settings", settings)
	if err != nil {
		return nil, err
	}
	var out WorkspaceSettings
	if err := core.Decode(v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveMember removes a member from the workspace.
func (s *AccountsService) RemoveMember(ctx context.Context, memberID string) error {
	s.t.WarnTenantScope("account.members.remove")
	_, err := s.t.Delete(ctx, "/account/members/"+memberID, nil)
	return err
}
