package upstream

import (
	"context"

	"github.com/fikertekiflu/hospital/pkg/types"
)

// AppointmentClient wraps the appointment resource endpoints
type AppointmentClient struct {
	core *Client
}

// NewAppointmentClient creates an appointment client over the shared core
func NewAppointmentClient(core *Client) *AppointmentClient {
	return &AppointmentClient{core: core}
}

// List fetches appointments matching the filters
func (c *AppointmentClient) List(ctx context.Context, filters types.AppointmentFilters) ([]*types.Appointment, error) {
	var appointments []*types.Appointment
	if err := c.core.get(ctx, "/appointments", filters.Values(), &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Get fetches a single appointment by id
func (c *AppointmentClient) Get(ctx context.Context, id string) (*types.Appointment, error) {
	var apt types.Appointment
	if err := c.core.get(ctx, "/appointments/"+id, nil, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

// Create schedules a new appointment
func (c *AppointmentClient) Create(ctx context.Context, input types.AppointmentInput) (*types.Appointment, error) {
	var apt types.Appointment
	if err := c.core.post(ctx, "/appointments", input, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

// Transition moves an appointment into the given status; the API server
// rejects illegal transitions
func (c *AppointmentClient) Transition(ctx context.Context, id string, status types.AppointmentStatus) (*types.Appointment, error) {
	var apt types.Appointment
	body := map[string]string{"status": string(status)}
	if err := c.core.put(ctx, "/appointments/"+id+"/status", body, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}

// Reschedule moves an appointment to a new datetime
func (c *AppointmentClient) Reschedule(ctx context.Context, id string, input types.AppointmentReschedule) (*types.Appointment, error) {
	var apt types.Appointment
	if err := c.core.put(ctx, "/appointments/"+id+"/reschedule", input, &apt); err != nil {
		return nil, err
	}
	return &apt, nil
}
