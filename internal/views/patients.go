package views

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gorilla/mux"

	"github.com/fikertekiflu/hospital/internal/guard"
	"github.com/fikertekiflu/hospital/internal/querycache"
	"github.com/fikertekiflu/hospital/internal/session"
	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/types"
)

// PatientRow is one table row with its role-gated actions
type PatientRow struct {
	*types.Patient
	Actions []string `json:"actions"`
}

// PatientListDoc is the patient list view document
type PatientListDoc struct {
	Patients      []PatientRow    `json:"patients"`
	Error         string          `json:"error,omitempty"`
	Notifications []session.Event `json:"notifications,omitempty"`
}

// PatientDetailDoc is the patient detail view document; the dependent
// sub-resources are fetched only after the patient itself has loaded
type PatientDetailDoc struct {
	Patient       *types.Patient       `json:"patient"`
	Appointments  []*types.Appointment `json:"appointments,omitempty"`
	Treatments    []*types.Treatment   `json:"treatments,omitempty"`
	Error         string               `json:"error,omitempty"`
	Notifications []session.Event      `json:"notifications,omitempty"`
}

func patientFiltersFromQuery(r *http.Request) types.PatientFilters {
	q := r.URL.Query()
	filters := types.PatientFilters{Search: q.Get("search")}

	if val := q.Get("isActive"); val != "" {
		if active, err := strconv.ParseBool(val); err == nil {
			filters.IsActive = &active
		}
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filters.Offset = offset
	}

	return filters
}

// handlePatientList serves the patient table for the current filter key
func (s *Service) handlePatientList(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(r)
	filters := patientFiltersFromQuery(r)
	key := querycache.NewKey("patients", filters.Values())
	revalidate := r.URL.Query().Get("refocus") == "1"

	value, err := s.fetchList(r.Context(), key, revalidate, func(ctx context.Context) (interface{}, error) {
		return s.clients.Patients.List(ctx, filters)
	})

	doc := PatientListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	canEdit := guard.Allowed(sess.Role, types.RoleAdmin, types.RoleReceptionist)
	for _, p := range value.([]*types.Patient) {
		row := PatientRow{Patient: p, Actions: []string{"view"}}
		if canEdit {
			row.Actions = append(row.Actions, "edit", "delete")
		}
		doc.Patients = append(doc.Patients, row)
	}

	s.writeJSONResponse(w, http.StatusOK, doc)
}

// handlePatientSearch debounces free-text search input; successive terms
// inside the settle window collapse into one fetch for the final term
func (s *Service) handlePatientSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.QueuePatientSearch(body.Term)
	s.writeJSONResponse(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// QueuePatientSearch schedules a debounced fetch for the search term
func (s *Service) QueuePatientSearch(term string) {
	s.debouncer.Trigger("patient-search", func() {
		filters := types.PatientFilters{Search: term}
		key := querycache.NewKey("patients", filters.Values())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := s.cache.Refresh(ctx, key, s.listPolicy, func(ctx context.Context) (interface{}, error) {
			return s.clients.Patients.List(ctx, filters)
		}); err != nil {
			s.logger.WithError(err).WithField("term", term).Warn("Patient search fetch failed")
		}
	})
}

// handlePatientDetail serves one patient with dependent sub-resources. The
// appointment and treatment fetches wait for the patient fetch to succeed.
func (s *Service) handlePatientDetail(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	doc := PatientDetailDoc{Notifications: s.notifications.Drain()}

	value, err := s.cache.Fetch(r.Context(), querycache.Key("patients/"+patientID), s.listPolicy, false,
		func(ctx context.Context) (interface{}, error) {
			return s.clients.Patients.Get(ctx, patientID)
		})
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}
	doc.Patient = value.(*types.Patient)

	aptFilters := types.AppointmentFilters{PatientID: patientID}
	if apts, err := s.fetchList(r.Context(), querycache.NewKey("appointments", aptFilters.Values()), false,
		func(ctx context.Context) (interface{}, error) {
			return s.clients.Appointments.List(ctx, aptFilters)
		}); err == nil {
		doc.Appointments = apts.([]*types.Appointment)
	}

	trFilters := types.TreatmentFilters{PatientID: patientID}
	if treatments, err := s.fetchList(r.Context(), querycache.NewKey("treatments", trFilters.Values()), false,
		func(ctx context.Context) (interface{}, error) {
			return s.clients.Treatments.List(ctx, trFilters)
		}); err == nil {
		doc.Treatments = treatments.([]*types.Treatment)
	}

	s.writeJSONResponse(w, http.StatusOK, doc)
}

func validatePatientInput(input types.PatientInput) error {
	return v.Errors{
		"first_name":    v.Validate(input.FirstName, v.Required, v.Length(1, 100)),
		"last_name":     v.Validate(input.LastName, v.Required, v.Length(1, 100)),
		"date_of_birth": v.Validate(input.DateOfBirth, v.Required, v.Date("2006-01-02")),
		"gender":        v.Validate(input.Gender, v.Required, v.In("male", "female", "other")),
		"phone":         v.Validate(input.Phone, v.Required, is.E164),
		"email":         v.Validate(input.Email, is.EmailFormat),
	}.Filter()
}

// handlePatientCreate registers a new patient; field errors block the
// upstream call
func (s *Service) handlePatientCreate(w http.ResponseWriter, r *http.Request) {
	var input types.PatientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validatePatientInput(input); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Patients.Create(ctx, input)
	}, "patients")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Patient registered"})
	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"patient":  value,
		"navigate": "/patients",
	})
}

// handlePatientUpdate updates a patient's demographics
func (s *Service) handlePatientUpdate(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	var input types.PatientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validatePatientInput(input); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Patients.Update(ctx, patientID, input)
	}, "patients")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Patient updated"})
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"patient":  value,
		"navigate": "/patients",
	})
}

// handlePatientDelete removes a patient record
func (s *Service) handlePatientDelete(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	_, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return nil, s.clients.Patients.Delete(ctx, patientID)
	}, "patients")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Patient removed"})
	s.writeJSONResponse(w, http.StatusOK, map[string]string{"navigate": "/patients"})
}

// writeValidationErrors surfaces field-level messages keyed by field name
func (s *Service) writeValidationErrors(w http.ResponseWriter, err error) {
	fields := map[string]string{}
	if ve, ok := err.(v.Errors); ok {
		for field, fieldErr := range ve {
			fields[field] = fieldErr.Error()
		}
	}
	s.writeJSONResponse(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "validation failed",
		"errors":  fields,
	})
}

// rejectWrite surfaces a server-rejected write as a transient notification;
// no cache entry was touched and the form keeps its entered data
func (s *Service) rejectWrite(w http.ResponseWriter, err error) {
	message := upstream.ErrorMessage(err)
	s.notifications.Notify(session.Event{Level: session.LevelError, Message: message})

	status := http.StatusBadGateway
	if apiErr, ok := err.(*upstream.APIError); ok {
		status = apiErr.Status
	}

	s.writeJSONResponse(w, status, map[string]interface{}{
		"message":       message,
		"keep_form":     true,
		"notifications": s.notifications.Drain(),
	})
}
