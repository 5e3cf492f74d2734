package views

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fikertekiflu/hospital/internal/querycache"
	"github.com/fikertekiflu/hospital/internal/session"
	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/types"
)

// RoomOption is one entry in the room selector; rooms at capacity stay in
// the list but cannot be selected
type RoomOption struct {
	*types.Room
	Disabled bool `json:"disabled"`
}

// AdmissionListDoc is the admission list view document
type AdmissionListDoc struct {
	Admissions    []*types.Admission `json:"admissions"`
	Error         string             `json:"error,omitempty"`
	Notifications []session.Event    `json:"notifications,omitempty"`
}

// AdmissionFormDoc backs the admission form: room options with
// server-computed occupancy, and the doctor selector
type AdmissionFormDoc struct {
	Rooms         []RoomOption         `json:"rooms"`
	Doctors       []*types.StaffMember `json:"doctors"`
	Error         string               `json:"error,omitempty"`
	Notifications []session.Event      `json:"notifications,omitempty"`
}

func admissionFiltersFromQuery(r *http.Request) types.AdmissionFilters {
	q := r.URL.Query()
	filters := types.AdmissionFilters{
		PatientID: q.Get("patientId"),
		RoomID:    q.Get("roomId"),
		DateFrom:  q.Get("dateFrom"),
		DateTo:    q.Get("dateTo"),
		Search:    q.Get("search"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filters.Offset = offset
	}
	return filters
}

// handleAdmissionList serves the admission table for the current filters
func (s *Service) handleAdmissionList(w http.ResponseWriter, r *http.Request) {
	filters := admissionFiltersFromQuery(r)
	key := querycache.NewKey("admissions", filters.Values())
	revalidate := r.URL.Query().Get("refocus") == "1"

	value, err := s.fetchList(r.Context(), key, revalidate, func(ctx context.Context) (interface{}, error) {
		return s.clients.Admissions.List(ctx, filters)
	})

	doc := AdmissionListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Admissions = value.([]*types.Admission)
	s.writeJSONResponse(w, http.StatusOK, doc)
}

// handleAdmissionForm backs the admission form. Occupancy is displayed as
// the server computed it; a full room is rendered but disabled.
func (s *Service) handleAdmissionForm(w http.ResponseWriter, r *http.Request) {
	doc := AdmissionFormDoc{Notifications: s.notifications.Drain()}

	roomsVal, err := s.fetchReference(r.Context(), querycache.Key("rooms"),
		func(ctx context.Context) (interface{}, error) {
			return s.clients.Admissions.Rooms(ctx)
		})
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	for _, room := range roomsVal.([]*types.Room) {
		doc.Rooms = append(doc.Rooms, RoomOption{Room: room, Disabled: room.AtCapacity()})
	}

	if doctorsVal, err := s.fetchReference(r.Context(), querycache.Key("staff/doctors/active"),
		func(ctx context.Context) (interface{}, error) {
			return s.clients.Staff.ActiveDoctors(ctx)
		}); err == nil {
		doc.Doctors = doctorsVal.([]*types.StaffMember)
	}

	s.writeJSONResponse(w, http.StatusOK, doc)
}

func validateAdmissionInput(input types.AdmissionInput) error {
	return v.Errors{
		"patient_id":           v.Validate(input.PatientID, v.Required),
		"room_id":              v.Validate(input.RoomID, v.Required),
		"admitting_doctor_id":  v.Validate(input.AdmittingDoctorID, v.Required),
		"admission_datetime":   v.Validate(input.AdmissionDatetime, v.Required, v.Date(time.RFC3339)),
		"reason_for_admission": v.Validate(input.ReasonForAdmission, v.Required, v.Length(1, 500)),
	}.Filter()
}

// handleAdmissionCreate records an admission; a single-shot workflow, so
// success navigates away. A conflicting room assignment comes back from the
// server and is surfaced with the form data intact.
func (s *Service) handleAdmissionCreate(w http.ResponseWriter, r *http.Request) {
	var input types.AdmissionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateAdmissionInput(input); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Admissions.Create(ctx, input)
	}, "admissions", "rooms")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Patient admitted"})
	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"admission": value,
		"navigate":  "/admissions",
	})
}
