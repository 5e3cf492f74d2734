package upstream

import (
	"context"

	"github.com/fikertekiflu/hospital/pkg/types"
)

// PatientClient wraps the patient resource endpoints
type PatientClient struct {
	core *Client
}

// NewPatientClient creates a patient client over the shared core
func NewPatientClient(core *Client) *PatientClient {
	return &PatientClient{core: core}
}

// List fetches patients matching the filters
func (c *PatientClient) List(ctx context.Context, filters types.PatientFilters) ([]*types.Patient, error) {
	var patients []*types.Patient
	if err := c.core.get(ctx, "/patients", filters.Values(), &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// Get fetches a single patient by id
func (c *PatientClient) Get(ctx context.Context, id string) (*types.Patient, error) {
	var patient types.Patient
	if err := c.core.get(ctx, "/patients/"+id, nil, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// Create registers a new patient
func (c *PatientClient) Create(ctx context.Context, input types.PatientInput) (*types.Patient, error) {
	var patient types.Patient
	if err := c.core.post(ctx, "/patients", input, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// Update replaces a patient's demographic fields
func (c *PatientClient) Update(ctx context.Context, id string, input types.PatientInput) (*types.Patient, error) {
	var patient types.Patient
	if err := c.core.put(ctx, "/patients/"+id, input, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// Delete removes a patient record; the API server decides soft versus hard
func (c *PatientClient) Delete(ctx context.Context, id string) error {
	return c.core.delete(ctx, "/patients/"+id)
}
