package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fikertekiflu/hospital/pkg/types"
)

func TestDispatchCoversEveryKnownRole(t *testing.T) {
	for _, role := range types.KnownRoles() {
		vs := Dispatch(role)

		assert.Equal(t, role, vs.Role)
		assert.NotEqual(t, "UnconfiguredDashboard", vs.Dashboard.Component, "role %s should have a dedicated dashboard", role)
		assert.NotEmpty(t, vs.Sidebar.Items, "role %s should have sidebar items", role)
	}
}

func TestDispatchUnknownRoleFallsBack(t *testing.T) {
	var vs ViewSet
	require.NotPanics(t, func() {
		vs = Dispatch(types.Role("janitor"))
	})

	assert.Equal(t, types.Role("janitor"), vs.Role)
	assert.Equal(t, "UnconfiguredDashboard", vs.Dashboard.Component)
	assert.Equal(t, "MinimalSidebar", vs.Sidebar.Component)
}

func TestDispatchEmptyRoleFallsBack(t *testing.T) {
	require.NotPanics(t, func() {
		vs := Dispatch("")
		assert.Equal(t, "UnconfiguredDashboard", vs.Dashboard.Component)
	})
}

func TestDispatchRoleSpecificComposition(t *testing.T) {
	admin := Dispatch(types.RoleAdmin)
	assert.Equal(t, "AdminDashboard", admin.Dashboard.Component)
	assert.Contains(t, sidebarRoutes(admin), "/admin/staff")

	doctor := Dispatch(types.RoleDoctor)
	assert.Equal(t, "DoctorDashboard", doctor.Dashboard.Component)
	assert.NotContains(t, sidebarRoutes(doctor), "/admin/staff")
	assert.Contains(t, sidebarRoutes(doctor), "/treatments")

	wardBoy := Dispatch(types.RoleWardBoy)
	assert.Equal(t, "WardBoyDashboard", wardBoy.Dashboard.Component)
	assert.Contains(t, sidebarRoutes(wardBoy), "/assignments")
	assert.NotContains(t, sidebarRoutes(wardBoy), "/billing")
}

func sidebarRoutes(vs ViewSet) []string {
	routes := make([]string, 0, len(vs.Sidebar.Items))
	for _, item := range vs.Sidebar.Items {
		routes = append(routes, item.Route)
	}
	return routes
}
