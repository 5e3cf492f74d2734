package views

import (
	"net/http"

	"github.com/fikertekiflu/hospital/internal/dispatch"
	"github.com/fikertekiflu/hospital/internal/session"
)

// LayoutDoc is the shell document: the role-selected sidebar, the main
// content slot, and the persistent header and footer
type LayoutDoc struct {
	Header        HeaderDoc        `json:"header"`
	Sidebar       dispatch.Sidebar `json:"sidebar"`
	ContentSlot   string           `json:"content_slot"`
	Footer        string           `json:"footer"`
	Notifications []session.Event  `json:"notifications,omitempty"`
}

// HeaderDoc carries the signed-in identity shown in the header
type HeaderDoc struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// DashboardDoc is the role-dispatched dashboard document
type DashboardDoc struct {
	ViewSet       dispatch.ViewSet `json:"view_set"`
	Notifications []session.Event  `json:"notifications,omitempty"`
}

// handleDashboard renders the dashboard composition for the session's role.
// Unknown roles get the dispatcher's fallback pair, never an error.
func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)

	doc := DashboardDoc{
		ViewSet:       dispatch.Dispatch(sess.Role),
		Notifications: s.notifications.Drain(),
	}

	s.writeJSONResponse(w, http.StatusOK, doc)
}

// handleLayout renders the layout shell around the dispatched sidebar
func (s *Service) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)
	vs := dispatch.Dispatch(sess.Role)

	doc := LayoutDoc{
		Header: HeaderDoc{
			FullName: sess.FullName,
			Role:     string(sess.Role),
		},
		Sidebar:       vs.Sidebar,
		ContentSlot:   "main",
		Footer:        "Hospital Management System",
		Notifications: s.notifications.Drain(),
	}

	s.writeJSONResponse(w, http.StatusOK, doc)
}
