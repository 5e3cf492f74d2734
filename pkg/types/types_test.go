package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterValuesCanonicalOrder(t *testing.T) {
	f := AppointmentFilters{
		DoctorID: "d1",
		Status:   AppointmentScheduled,
		DateFrom: "2026-09-01",
	}

	// Encode sorts keys, so equal filters always yield the same string
	assert.Equal(t, "dateFrom=2026-09-01&doctorId=d1&status=scheduled", f.Values().Encode())
}

func TestFilterValuesOmitEmpty(t *testing.T) {
	assert.Empty(t, PatientFilters{}.Values())
	assert.Empty(t, BillFilters{}.Values())

	active := true
	v := PatientFilters{Search: "jane", IsActive: &active, Limit: 25}.Values()
	assert.Equal(t, "jane", v.Get("search"))
	assert.Equal(t, "true", v.Get("isActive"))
	assert.Equal(t, "25", v.Get("limit"))
	assert.Empty(t, v.Get("offset"))
}

func TestBillOutstanding(t *testing.T) {
	b := Bill{TotalAmount: 1200, AmountPaid: 450.50}
	assert.InDelta(t, 749.50, b.Outstanding(), 0.001)

	paid := Bill{TotalAmount: 300, AmountPaid: 300}
	assert.Zero(t, paid.Outstanding())
}

func TestRoomAtCapacity(t *testing.T) {
	assert.False(t, (&Room{Capacity: 4, Occupancy: 3}).AtCapacity())
	assert.True(t, (&Room{Capacity: 4, Occupancy: 4}).AtCapacity())
	assert.True(t, (&Room{Capacity: 2, Occupancy: 3}).AtCapacity())
}

func TestSessionExpired(t *testing.T) {
	live := Session{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, live.Expired())

	stale := Session{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, stale.Expired())

	// Tokens without an exp claim never expire locally
	open := Session{}
	assert.False(t, open.Expired())
}

func TestRoleIsKnown(t *testing.T) {
	for _, role := range KnownRoles() {
		assert.True(t, role.IsKnown())
	}
	assert.False(t, Role("janitor").IsKnown())
	assert.False(t, Role("").IsKnown())
}
