package dispatch

import (
	"github.com/fikertekiflu/hospital/pkg/types"
)

// NavItem is one sidebar entry
type NavItem struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// Dashboard describes the dashboard composition for a role
type Dashboard struct {
	Component string   `json:"component"`
	Widgets   []string `json:"widgets"`
}

// Sidebar describes the navigation composition for a role
type Sidebar struct {
	Component string    `json:"component"`
	Items     []NavItem `json:"items"`
}

// ViewSet is the dashboard and sidebar pair selected for a role
type ViewSet struct {
	Role      types.Role `json:"role"`
	Dashboard Dashboard  `json:"dashboard"`
	Sidebar   Sidebar    `json:"sidebar"`
}

// fallback is rendered for any role outside the table; an unmapped role
// degrades to a placeholder, never an error
var fallback = ViewSet{
	Dashboard: Dashboard{
		Component: "UnconfiguredDashboard",
		Widgets:   []string{"contact-administrator"},
	},
	Sidebar: Sidebar{
		Component: "MinimalSidebar",
		Items: []NavItem{
			{Label: "Dashboard", Route: "/dashboard"},
		},
	},
}

var viewSets = map[types.Role]ViewSet{
	types.RoleAdmin: {
		Dashboard: Dashboard{
			Component: "AdminDashboard",
			Widgets:   []string{"patient-census", "staff-overview", "revenue-summary", "room-occupancy"},
		},
		Sidebar: Sidebar{
			Component: "AdminSidebar",
			Items: []NavItem{
				{Label: "Dashboard", Route: "/dashboard"},
				{Label: "Patients", Route: "/patients"},
				{Label: "Appointments", Route: "/appointments"},
				{Label: "Admissions", Route: "/admissions"},
				{Label: "Treatments", Route: "/treatments"},
				{Label: "Assignments", Route: "/assignments"},
				{Label: "Billing", Route: "/billing"},
				{Label: "Staff Management", Route: "/admin/staff"},
			},
		},
	},
	types.RoleDoctor: {
		Dashboard: Dashboard{
			Component: "DoctorDashboard",
			Widgets:   []string{"todays-schedule", "my-patients", "pending-treatments"},
		},
		Sidebar: Sidebar{
			Component: "DoctorSidebar",
			Items: []NavItem{
				{Label: "Dashboard", Route: "/dashboard"},
				{Label: "My Appointments", Route: "/appointments"},
				{Label: "Patients", Route: "/patients"},
				{Label: "Treatments", Route: "/treatments"},
			},
		},
	},
	types.RoleNurse: {
		Dashboard: Dashboard{
			Component: "NurseDashboard",
			Widgets:   []string{"task-board", "ward-patients"},
		},
		Sidebar: Sidebar{
			Component: "NurseSidebar",
			Items: []NavItem{
				{Label: "Dashboard", Route: "/dashboard"},
				{Label: "My Tasks", Route: "/assignments"},
				{Label: "Patients", Route: "/patients"},
			},
		},
	},
	types.RoleReceptionist: {
		Dashboard: Dashboard{
			Component: "ReceptionistDashboard",
			Widgets:   []string{"todays-appointments", "recent-registrations"},
		},
		Sidebar: Sidebar{
			Component: "ReceptionistSidebar",
			Items: []NavItem{
				{Label: "Dashboard", Route: "/dashboard"},
				{Label: "Patients", Route: "/patients"},
				{Label: "Appointments", Route: "/appointments"},
				{Label: "Admissions", Route: "/admissions"},
			},
		},
	},
	types.RoleWardBoy: {
		Dashboard: Dashboard{
			Component: "WardBoyDashboard",
			Widgets:   []string{"task-board"},
		},
		Sidebar: Sidebar{
			Component: "WardBoySidebar",
			Items: []NavItem{
				{Label: "Dashboard", Route: "/dashboard"},
				{Label: "My Tasks", Route: "/assignments"},
			},
		},
	},
	types.RoleBillingStaff: {
		Dashboard: Dashboard{
			Component: "BillingDashboard",
			Widgets:   []string{"outstanding-bills", "todays-payments"},
		},
		Sidebar: Sidebar{
			Component: "BillingSidebar",
			Items: []NavItem{
				{Label: "Dashboard", Route: "/dashboard"},
				{Label: "Billing", Route: "/billing"},
				{Label: "Patients", Route: "/patients"},
			},
		},
	},
}

// Dispatch maps a role to its dashboard and sidebar pair. It is total: any
// role outside the table gets the fallback pair and never a panic.
func Dispatch(role types.Role) ViewSet {
	if vs, ok := viewSets[role]; ok {
		vs.Role = role
		return vs
	}

	vs := fallback
	vs.Role = role
	return vs
}
