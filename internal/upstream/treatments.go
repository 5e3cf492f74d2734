package upstream

import (
	"context"

	"github.com/fikertekiflu/hospital/pkg/types"
)

// TreatmentClient wraps the treatment resource endpoints. Treatments are
// append-only, so there is no update or delete call.
type TreatmentClient struct {
	core *Client
}

// NewTreatmentClient creates a treatment client over the shared core
func NewTreatmentClient(core *Client) *TreatmentClient {
	return &TreatmentClient{core: core}
}

// List fetches treatments matching the filters
func (c *TreatmentClient) List(ctx context.Context, filters types.TreatmentFilters) ([]*types.Treatment, error) {
	var treatments []*types.Treatment
	if err := c.core.get(ctx, "/treatments", filters.Values(), &treatments); err != nil {
		return nil, err
	}
	return treatments, nil
}

// Get fetches a single treatment by id
func (c *TreatmentClient) Get(ctx context.Context, id string) (*types.Treatment, error) {
	var treatment types.Treatment
	if err := c.core.get(ctx, "/treatments/"+id, nil, &treatment); err != nil {
		return nil, err
	}
	return &treatment, nil
}

// Create appends a new treatment record
func (c *TreatmentClient) Create(ctx context.Context, input types.TreatmentInput) (*types.Treatment, error) {
	var treatment types.Treatment
	if err := c.core.post(ctx, "/treatments", input, &treatment); err != nil {
		return nil, err
	}
	return &treatment, nil
}
