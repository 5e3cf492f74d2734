package upstream

import (
	"context"

	"github.com/fikertekiflu/hospital/pkg/types"
)

// StaffClient wraps the staff resource endpoints; mostly reference data for
// foreign-key selectors (active doctors, nurses)
type StaffClient struct {
	core *Client
}

// NewStaffClient creates a staff client over the shared core
func NewStaffClient(core *Client) *StaffClient {
	return &StaffClient{core: core}
}

// List fetches staff members matching the filters
func (c *StaffClient) List(ctx context.Context, filters types.StaffFilters) ([]*types.StaffMember, error) {
	var staff []*types.StaffMember
	if err := c.core.get(ctx, "/staff", filters.Values(), &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ActiveDoctors fetches the active doctor list used by selectors
func (c *StaffClient) ActiveDoctors(ctx context.Context) ([]*types.StaffMember, error) {
	active := true
	return c.List(ctx, types.StaffFilters{Role: types.RoleDoctor, IsActive: &active})
}
