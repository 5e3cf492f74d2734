package upstream

import (
	"context"

	"github.com/fikertekiflu/hospital/pkg/types"
)

// BillingClient wraps the billing resource endpoints
type BillingClient struct {
	core *Client
}

// NewBillingClient creates a billing client over the shared core
func NewBillingClient(core *Client) *BillingClient {
	return &BillingClient{core: core}
}

// List fetches bills matching the filters
func (c *BillingClient) List(ctx context.Context, filters types.BillFilters) ([]*types.Bill, error) {
	var bills []*types.Bill
	if err := c.core.get(ctx, "/bills", filters.Values(), &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// Get fetches a single bill by id
func (c *BillingClient) Get(ctx context.Context, id string) (*types.Bill, error) {
	var bill types.Bill
	if err := c.core.get(ctx, "/bills/"+id, nil, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// Create issues a new bill
func (c *BillingClient) Create(ctx context.Context, input types.BillInput) (*types.Bill, error) {
	var bill types.Bill
	if err := c.core.post(ctx, "/bills", input, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// Pay applies a payment to an existing bill
func (c *BillingClient) Pay(ctx context.Context, id string, payment types.PaymentInput) (*types.Bill, error) {
	var bill types.Bill
	if err := c.core.post(ctx, "/bills/"+id+"/payments", payment, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}
