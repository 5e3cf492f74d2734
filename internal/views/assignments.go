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

// AssignmentAction is one status button for a staff task
type AssignmentAction struct {
	Status types.AssignmentStatus `json:"status"`
	Label  string                 `json:"label"`
}

// AssignmentRow is one task row with the transitions legal from its status
type AssignmentRow struct {
	*types.Assignment
	Transitions []AssignmentAction `json:"transitions"`
}

// AssignmentListDoc is the task list view document
type AssignmentListDoc struct {
	Assignments   []AssignmentRow `json:"assignments"`
	Error         string          `json:"error,omitempty"`
	Notifications []session.Event `json:"notifications,omitempty"`
}

func assignmentRows(assignments []*types.Assignment) []AssignmentRow {
	rows := make([]AssignmentRow, 0, len(assignments))
	for _, task := range assignments {
		row := AssignmentRow{Assignment: task, Transitions: []AssignmentAction{}}
		for _, next := range task.Status.NextStatuses() {
			row.Transitions = append(row.Transitions, AssignmentAction{
				Status: next,
				Label:  next.ActionLabel(),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func assignmentFiltersFromQuery(r *http.Request) types.AssignmentFilters {
	q := r.URL.Query()
	filters := types.AssignmentFilters{
		PatientID: q.Get("patientId"),
		StaffID:   q.Get("staffId"),
		Status:    types.AssignmentStatus(q.Get("status")),
		DateFrom:  q.Get("dateFrom"),
		DateTo:    q.Get("dateTo"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filters.Offset = offset
	}
	return filters
}

// handleAssignmentList serves the task table for the current filters
func (s *Service) handleAssignmentList(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)
	filters := assignmentFiltersFromQuery(r)

	// Ward staff see their own tasks by default
	if (sess.Role == types.RoleNurse || sess.Role == types.RoleWardBoy) && filters.StaffID == "" {
		filters.StaffID = sess.LinkedStaffID
	}

	key := querycache.NewKey("assignments", filters.Values())
	revalidate := r.URL.Query().Get("refocus") == "1"

	value, err := s.fetchList(r.Context(), key, revalidate, func(ctx context.Context) (interface{}, error) {
		return s.clients.Assignments.List(ctx, filters)
	})

	doc := AssignmentListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Assignments = assignmentRows(value.([]*types.Assignment))
	s.writeJSONResponse(w, http.StatusOK, doc)
}

// handleAssignmentBoard serves the polled task board for the signed-in
// staff member
func (s *Service) handleAssignmentBoard(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)

	filters := types.AssignmentFilters{StaffID: sess.LinkedStaffID}
	key := querycache.NewKey("assignments", filters.Values())
	fetch := func(ctx context.Context) (interface{}, error) {
		return s.clients.Assignments.List(ctx, filters)
	}

	if s.poller != nil {
		s.poller.Register(key, s.listPolicy, fetch)
	}

	value, err := s.fetchList(r.Context(), key, false, fetch)

	doc := AssignmentListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Assignments = assignmentRows(value.([]*types.Assignment))
	s.writeJSONResponse(w, http.StatusOK, doc)
}

func validateAssignmentInput(input types.AssignmentInput) error {
	return v.Errors{
		"patient_id":     v.Validate(input.PatientID, v.Required),
		"staff_id":       v.Validate(input.StaffID, v.Required),
		"description":    v.Validate(input.Description, v.Required, v.Length(1, 500)),
		"start_datetime": v.Validate(input.StartDatetime, v.Required, v.Date(time.RFC3339)),
	}.Filter()
}

// handleAssignmentCreate registers a staff task
func (s *Service) handleAssignmentCreate(w http.ResponseWriter, r *http.Request) {
	var input types.AssignmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateAssignmentInput(input); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Assignments.Create(ctx, input)
	}, "assignments")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Task assigned"})
	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"assignment": value,
		"navigate":   "/assignments",
	})
}

// handleAssignmentTransition moves a task along its status graph.
// Completing a task stamps its end datetime with the transition time.
func (s *Service) handleAssignmentTransition(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]

	var body struct {
		Status types.AssignmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := s.clients.Assignments.Get(r.Context(), taskID)
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

	transition := types.AssignmentTransition{Status: body.Status}
	if body.Status == types.AssignmentCompleted {
		now := time.Now()
		transition.EndDatetime = &now
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Assignments.Transition(ctx, taskID, transition)
	}, "assignments")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	updated := value.(*types.Assignment)
	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Task " + string(updated.Status)})
	s.writeJSONResponse(w, http.StatusOK, assignmentRows([]*types.Assignment{updated})[0])
}
