package upstream

import (
	"context"

	"github.com/fikertekiflu/hospital/pkg/types"
)

// AdmissionClient wraps the admission and room resource endpoints
type AdmissionClient struct {
	core *Client
}

// NewAdmissionClient creates an admission client over the shared core
func NewAdmissionClient(core *Client) *AdmissionClient {
	return &AdmissionClient{core: core}
}

// List fetches admissions matching the filters
func (c *AdmissionClient) List(ctx context.Context, filters types.AdmissionFilters) ([]*types.Admission, error) {
	var admissions []*types.Admission
	if err := c.core.get(ctx, "/admissions", filters.Values(), &admissions); err != nil {
		return nil, err
	}
	return admissions, nil
}

// Get fetches a single admission by id
func (c *AdmissionClient) Get(ctx context.Context, id string) (*types.Admission, error) {
	var adm types.Admission
	if err := c.core.get(ctx, "/admissions/"+id, nil, &adm); err != nil {
		return nil, err
	}
	return &adm, nil
}

// Create records a new admission; the API server enforces room capacity
func (c *AdmissionClient) Create(ctx context.Context, input types.AdmissionInput) (*types.Admission, error) {
	var adm types.Admission
	if err := c.core.post(ctx, "/admissions", input, &adm); err != nil {
		return nil, err
	}
	return &adm, nil
}

// Rooms fetches all rooms with server-computed occupancy
func (c *AdmissionClient) Rooms(ctx context.Context) ([]*types.Room, error) {
	var rooms []*types.Room
	if err := c.core.get(ctx, "/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}
