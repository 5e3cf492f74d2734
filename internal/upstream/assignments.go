package upstream

import (
	"context"

	"github.com/fikertekiflu/hospital/pkg/types"
)

// AssignmentClient wraps the staff task resource endpoints
type AssignmentClient struct {
	core *Client
}

// NewAssignmentClient creates an assignment client over the shared core
func NewAssignmentClient(core *Client) *AssignmentClient {
	return &AssignmentClient{core: core}
}

// List fetches assignments matching the filters
func (c *AssignmentClient) List(ctx context.Context, filters types.AssignmentFilters) ([]*types.Assignment, error) {
	var assignments []*types.Assignment
	if err := c.core.get(ctx, "/assignments", filters.Values(), &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Get fetches a single assignment by id
func (c *AssignmentClient) Get(ctx context.Context, id string) (*types.Assignment, error) {
	var task types.Assignment
	if err := c.core.get(ctx, "/assignments/"+id, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create registers a new staff task
func (c *AssignmentClient) Create(ctx context.Context, input types.AssignmentInput) (*types.Assignment, error) {
	var task types.Assignment
	if err := c.core.post(ctx, "/assignments", input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Transition moves an assignment into the given status
func (c *AssignmentClient) Transition(ctx context.Context, id string, transition types.AssignmentTransition) (*types.Assignment, error) {
	var task types.Assignment
	if err := c.core.put(ctx, "/assignments/"+id+"/status", transition, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
