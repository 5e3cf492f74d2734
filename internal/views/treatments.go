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

// TreatmentListDoc is the treatment list view document; treatments carry no
// row actions because the record is append-only
type TreatmentListDoc struct {
	Treatments    []*types.Treatment `json:"treatments"`
	Error         string             `json:"error,omitempty"`
	Notifications []session.Event    `json:"notifications,omitempty"`
}

func treatmentFiltersFromQuery(r *http.Request) types.TreatmentFilters {
	q := r.URL.Query()
	filters := types.TreatmentFilters{
		PatientID: q.Get("patientId"),
		DoctorID:  q.Get("doctorId"),
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

// handleTreatmentList serves the treatment table for the current filters
func (s *Service) handleTreatmentList(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)
	filters := treatmentFiltersFromQuery(r)

	if sess.Role == types.RoleDoctor && filters.DoctorID == "" {
		filters.DoctorID = sess.LinkedStaffID
	}

	key := querycache.NewKey("treatments", filters.Values())
	revalidate := r.URL.Query().Get("refocus") == "1"

	value, err := s.fetchList(r.Context(), key, revalidate, func(ctx context.Context) (interface{}, error) {
		return s.clients.Treatments.List(ctx, filters)
	})

	doc := TreatmentListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Treatments = value.([]*types.Treatment)
	s.writeJSONResponse(w, http.StatusOK, doc)
}

func validateTreatmentInput(input types.TreatmentInput) error {
	return v.Errors{
		"patient_id":     v.Validate(input.PatientID, v.Required),
		"doctor_id":      v.Validate(input.DoctorID, v.Required),
		"name":           v.Validate(input.Name, v.Required, v.Length(1, 200)),
		"diagnosis":      v.Validate(input.Diagnosis, v.Required),
		"plan":           v.Validate(input.Plan, v.Required),
		"start_datetime": v.Validate(input.StartDatetime, v.Required, v.Date(time.RFC3339)),
	}.Filter()
}

// handleTreatmentCreate appends a treatment record
func (s *Service) handleTreatmentCreate(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)

	var input types.TreatmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Doctors record treatments under their own staff id
	if input.DoctorID == "" {
		input.DoctorID = sess.LinkedStaffID
	}

	if err := validateTreatmentInput(input); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Treatments.Create(ctx, input)
	}, "treatments")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Treatment recorded"})
	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"treatment": value,
		"navigate":  "/treatments",
	})
}
