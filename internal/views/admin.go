package views

import (
	"context"
	"net/http"

	"github.com/fikertekiflu/hospital/internal/querycache"
	"github.com/fikertekiflu/hospital/internal/session"
	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/types"
)

// StaffListDoc is the admin staff management view document
type StaffListDoc struct {
	Staff         []*types.StaffMember `json:"staff"`
	Error         string               `json:"error,omitempty"`
	Notifications []session.Event      `json:"notifications,omitempty"`
}

// handleStaffList serves the staff table for the admin management screen
func (s *Service) handleStaffList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := types.StaffFilters{
		Role:   types.Role(q.Get("role")),
		Search: q.Get("search"),
	}

	key := querycache.NewKey("staff", filters.Values())
	revalidate := q.Get("refocus") == "1"

	value, err := s.fetchList(r.Context(), key, revalidate, func(ctx context.Context) (interface{}, error) {
		return s.clients.Staff.List(ctx, filters)
	})

	doc := StaffListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Staff = value.([]*types.StaffMember)
	s.writeJSONResponse(w, http.StatusOK, doc)
}
