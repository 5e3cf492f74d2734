package views

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"

	"github.com/fikertekiflu/hospital/internal/querycache"
	"github.com/fikertekiflu/hospital/internal/session"
	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/types"
)

// TransitionAction is one status button: the target status and its label
type TransitionAction struct {
	Status types.AppointmentStatus `json:"status"`
	Label  string                  `json:"label"`
}

// AppointmentRow is one table row with the transition buttons legal from
// its current status
type AppointmentRow struct {
	*types.Appointment
	Transitions []TransitionAction `json:"transitions"`
}

// AppointmentListDoc is the appointment list view document
type AppointmentListDoc struct {
	Appointments  []AppointmentRow `json:"appointments"`
	Error         string           `json:"error,omitempty"`
	Notifications []session.Event  `json:"notifications,omitempty"`
}

// AppointmentFormDoc backs the scheduling form: the doctor selector options
// come from reference data cached on a fixed window
type AppointmentFormDoc struct {
	Doctors       []*types.StaffMember `json:"doctors"`
	Error         string               `json:"error,omitempty"`
	Notifications []session.Event      `json:"notifications,omitempty"`
}

func appointmentRows(appointments []*types.Appointment) []AppointmentRow {
	rows := make([]AppointmentRow, 0, len(appointments))
	for _, apt := range appointments {
		row := AppointmentRow{Appointment: apt, Transitions: []TransitionAction{}}
		for _, next := range apt.Status.NextStatuses() {
			row.Transitions = append(row.Transitions, TransitionAction{
				Status: next,
				Label:  next.ActionLabel(),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func appointmentFiltersFromQuery(r *http.Request) types.AppointmentFilters {
	q := r.URL.Query()
	filters := types.AppointmentFilters{
		PatientID: q.Get("patientId"),
		DoctorID:  q.Get("doctorId"),
		Status:    types.AppointmentStatus(q.Get("status")),
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

// handleAppointmentList serves the appointment table for the current filters
func (s *Service) handleAppointmentList(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)
	filters := appointmentFiltersFromQuery(r)

	// Doctors default to their own schedule
	if sess.Role == types.RoleDoctor && filters.DoctorID == "" {
		filters.DoctorID = sess.LinkedStaffID
	}

	key := querycache.NewKey("appointments", filters.Values())
	revalidate := r.URL.Query().Get("refocus") == "1"

	value, err := s.fetchList(r.Context(), key, revalidate, func(ctx context.Context) (interface{}, error) {
		return s.clients.Appointments.List(ctx, filters)
	})

	doc := AppointmentListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Appointments = appointmentRows(value.([]*types.Appointment))
	s.writeJSONResponse(w, http.StatusOK, doc)
}

// handleAppointmentBoard serves the today's-schedule board and keeps it on
// the polling set so it tracks the server without a page reload
func (s *Service) handleAppointmentBoard(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)

	today := time.Now().Format("2006-01-02")
	filters := types.AppointmentFilters{DateFrom: today, DateTo: today}
	if sess.Role == types.RoleDoctor {
		filters.DoctorID = sess.LinkedStaffID
	}

	key := querycache.NewKey("appointments", filters.Values())
	fetch := func(ctx context.Context) (interface{}, error) {
		return s.clients.Appointments.List(ctx, filters)
	}

	if s.poller != nil {
		s.poller.Register(key, s.listPolicy, fetch)
	}

	value, err := s.fetchList(r.Context(), key, false, fetch)

	doc := AppointmentListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Appointments = appointmentRows(value.([]*types.Appointment))
	s.writeJSONResponse(w, http.StatusOK, doc)
}

// handleAppointmentForm backs the scheduling form with reference data
func (s *Service) handleAppointmentForm(w http.ResponseWriter, r *http.Request) {
	doc := AppointmentFormDoc{Notifications: s.notifications.Drain()}

	value, err := s.fetchReference(r.Context(), querycache.Key("staff/doctors/active"),
		func(ctx context.Context) (interface{}, error) {
			return s.clients.Staff.ActiveDoctors(ctx)
		})
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Doctors = value.([]*types.StaffMember)
	s.writeJSONResponse(w, http.StatusOK, doc)
}

func validateAppointmentInput(input types.AppointmentInput) error {
	return v.Errors{
		"patient_id": v.Validate(input.PatientID, v.Required),
		"doctor_id":  v.Validate(input.DoctorID, v.Required),
		"datetime":   v.Validate(input.Datetime, v.Required, v.Date(time.RFC3339)),
		"reason":     v.Validate(input.Reason, v.Required, v.Length(1, 500)),
	}.Filter()
}

// handleAppointmentCreate schedules an appointment; scheduling is a
// repeat-entry workflow, so success resets the form instead of navigating
func (s *Service) handleAppointmentCreate(w http.ResponseWriter, r *http.Request) {
	var input types.AppointmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateAppointmentInput(input); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Appointments.Create(ctx, input)
	}, "appointments")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Appointment scheduled"})
	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"appointment": value,
		"reset_form":  true,
	})
}

// handleAppointmentTransition moves an appointment along its status graph.
// The shared transition table rejects illegal moves before any server call;
// the API server re-checks on its side.
func (s *Service) handleAppointmentTransition(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	var body struct {
		Status types.AppointmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := s.clients.Appointments.Get(r.Context(), aptID)
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	if !current.Status.CanTransition(body.Status) {
		s.writeJSONResponse(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"message": "illegal status transition",
			"errors": map[string]string{
				"status": string(current.Status) + " cannot move to " + string(body.Status),
			},
		})
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Appointments.Transition(ctx, aptID, body.Status)
	}, "appointments")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	updated := value.(*types.Appointment)
	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Appointment " + string(updated.Status)})
	s.writeJSONResponse(w, http.StatusOK, AppointmentRow{
		Appointment: updated,
		Transitions: appointmentRows([]*types.Appointment{updated})[0].Transitions,
	})
}

// handleAppointmentReschedule moves an appointment to a new datetime
func (s *Service) handleAppointmentReschedule(w http.ResponseWriter, r *http.Request) {
	aptID := mux.Vars(r)["id"]

	var input types.AppointmentReschedule
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := (v.Errors{
		"datetime": v.Validate(input.Datetime, v.Required, v.Date(time.RFC3339)),
	}).Filter(); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Appointments.Reschedule(ctx, aptID, input)
	}, "appointments")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Appointment rescheduled"})
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"appointment": value})
}
