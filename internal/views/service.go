package views

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fikertekiflu/hospital/internal/guard"
	"github.com/fikertekiflu/hospital/internal/querycache"
	"github.com/fikertekiflu/hospital/internal/session"
	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/config"
	"github.com/fikertekiflu/hospital/pkg/logger"
	"github.com/fikertekiflu/hospital/pkg/types"
)

// Clients bundles one resource client per server-owned collection
type Clients struct {
	Patients     *upstream.PatientClient
	Appointments *upstream.AppointmentClient
	Admissions   *upstream.AdmissionClient
	Treatments   *upstream.TreatmentClient
	Assignments  *upstream.AssignmentClient
	Billing      *upstream.BillingClient
	Staff        *upstream.StaffClient
}

// NewClients builds the resource clients over a shared core
func NewClients(core *upstream.Client) *Clients {
	return &Clients{
		Patients:     upstream.NewPatientClient(core),
		Appointments: upstream.NewAppointmentClient(core),
		Admissions:   upstream.NewAdmissionClient(core),
		Treatments:   upstream.NewTreatmentClient(core),
		Assignments:  upstream.NewAssignmentClient(core),
		Billing:      upstream.NewBillingClient(core),
		Staff:        upstream.NewStaffClient(core),
	}
}

// Service composes the feature views: resource clients through the query
// cache, gated by the route guard chain
type Service struct {
	clients       *Clients
	cache         *querycache.Cache
	sessions      *session.Store
	notifications *session.Recorder
	debouncer     *querycache.Debouncer
	poller        *querycache.Poller
	logger        *logger.Logger

	listPolicy querycache.Policy
	refPolicy  querycache.Policy
}

// New creates the view service
func New(clients *Clients, cache *querycache.Cache, sessions *session.Store, notifications *session.Recorder, cfg *config.Config, log *logger.Logger) *Service {
	s := &Service{
		clients:       clients,
		cache:         cache,
		sessions:      sessions,
		notifications: notifications,
		debouncer:     querycache.NewDebouncer(cfg.Cache.SearchDebounceDuration()),
		logger:        log,
		listPolicy:    querycache.Policy{TTL: cfg.Cache.ListStaleAfterDuration(), RevalidateOnFocus: true},
		refPolicy:     querycache.Policy{TTL: cfg.Cache.ReferenceTTLDuration()},
	}

	if cfg.Polling.Enabled {
		s.poller = querycache.NewPoller(cache, cfg.Polling.BoardIntervalDuration(), log)
	}

	return s
}

// Router builds the route tree: a public pair plus the authenticated subtree
// wrapped by the auth gate, with role gates nested around restricted routes
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)

	// Public pair
	r.HandleFunc("/", s.handleHome).Methods("GET")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")

	// Authenticated subtree; the auth gate is evaluated before any role gate
	authed := r.PathPrefix("/").Subrouter()
	authed.Use(guard.AuthGate(s.sessions))

	authed.HandleFunc("/dashboard", s.handleDashboard).Methods("GET")
	authed.HandleFunc("/layout", s.handleLayout).Methods("GET")

	// Patients: everyone signed in can read, edit/delete is front-desk work
	authed.HandleFunc("/patients", s.handlePatientList).Methods("GET")
	authed.HandleFunc("/patients/search", s.handlePatientSearch).Methods("POST")
	authed.HandleFunc("/patients/{id}", s.handlePatientDetail).Methods("GET")
	patientsWrite := authed.PathPrefix("/patients").Subrouter()
	patientsWrite.Use(guard.RoleGate(s.sessions, types.RoleAdmin, types.RoleReceptionist))
	patientsWrite.HandleFunc("", s.handlePatientCreate).Methods("POST")
	patientsWrite.HandleFunc("/{id}", s.handlePatientUpdate).Methods("PUT")
	patientsWrite.HandleFunc("/{id}", s.handlePatientDelete).Methods("DELETE")

	// Appointments
	authed.HandleFunc("/appointments", s.handleAppointmentList).Methods("GET")
	authed.HandleFunc("/appointments/board", s.handleAppointmentBoard).Methods("GET")
	authed.HandleFunc("/appointments/new", s.handleAppointmentForm).Methods("GET")
	authed.HandleFunc("/appointments/{id}/transition", s.handleAppointmentTransition).Methods("PUT")
	aptWrite := authed.PathPrefix("/appointments").Subrouter()
	aptWrite.Use(guard.RoleGate(s.sessions, types.RoleAdmin, types.RoleReceptionist, types.RoleDoctor))
	aptWrite.HandleFunc("", s.handleAppointmentCreate).Methods("POST")
	aptWrite.HandleFunc("/{id}/reschedule", s.handleAppointmentReschedule).Methods("PUT")

	// Admissions
	authed.HandleFunc("/admissions", s.handleAdmissionList).Methods("GET")
	authed.HandleFunc("/admissions/new", s.handleAdmissionForm).Methods("GET")
	admWrite := authed.PathPrefix("/admissions").Subrouter()
	admWrite.Use(guard.RoleGate(s.sessions, types.RoleAdmin, types.RoleReceptionist, types.RoleDoctor))
	admWrite.HandleFunc("", s.handleAdmissionCreate).Methods("POST")

	// Treatments: append-only, doctors write
	authed.HandleFunc("/treatments", s.handleTreatmentList).Methods("GET")
	trWrite := authed.PathPrefix("/treatments").Subrouter()
	trWrite.Use(guard.RoleGate(s.sessions, types.RoleDoctor))
	trWrite.HandleFunc("", s.handleTreatmentCreate).Methods("POST")

	// Assignments
	authed.HandleFunc("/assignments", s.handleAssignmentList).Methods("GET")
	authed.HandleFunc("/assignments/board", s.handleAssignmentBoard).Methods("GET")
	asnTransition := authed.PathPrefix("/assignments").Subrouter()
	asnTransition.Use(guard.RoleGate(s.sessions, types.RoleAdmin, types.RoleNurse, types.RoleWardBoy))
	asnTransition.HandleFunc("/{id}/transition", s.handleAssignmentTransition).Methods("PUT")
	asnWrite := authed.PathPrefix("/assignments").Subrouter()
	asnWrite.Use(guard.RoleGate(s.sessions, types.RoleAdmin, types.RoleNurse))
	asnWrite.HandleFunc("", s.handleAssignmentCreate).Methods("POST")

	// Billing
	authed.HandleFunc("/billing", s.handleBillList).Methods("GET")
	authed.HandleFunc("/billing/{id}", s.handleBillDetail).Methods("GET")
	billWrite := authed.PathPrefix("/billing").Subrouter()
	billWrite.Use(guard.RoleGate(s.sessions, types.RoleAdmin, types.RoleBillingStaff))
	billWrite.HandleFunc("", s.handleBillCreate).Methods("POST")
	billWrite.HandleFunc("/{id}/pay", s.handleBillPay).Methods("POST")

	// Admin-only management screens
	admin := authed.PathPrefix("/admin").Subrouter()
	admin.Use(guard.RoleGate(s.sessions, types.RoleAdmin))
	admin.HandleFunc("/staff", s.handleStaffList).Methods("GET")

	return r
}

// StartPolling registers the board keys and starts the poll loop
func (s *Service) StartPolling() {
	if s.poller == nil {
		return
	}
	s.poller.Start()
}

// Stop halts background work
func (s *Service) Stop() {
	s.debouncer.Stop()
	if s.poller != nil {
		s.poller.Stop()
	}
}

// handleHome redirects the root route to the authenticated landing route,
// or to login when no session is held
func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	if s.sessions.IsAuthenticated() {
		http.Redirect(w, r, guard.DashboardPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusFound)
}

// handleLogin authenticates against the API server
func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.sessions.Login(r.Context(), creds)
	if err != nil {
		s.writeJSONResponse(w, http.StatusUnauthorized, map[string]interface{}{
			"error":         upstream.ErrorMessage(err),
			"notifications": s.notifications.Drain(),
		})
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"session":       sess,
		"navigate":      guard.DashboardPath,
		"notifications": s.notifications.Drain(),
	})
}

// handleLogout clears the session unconditionally; cached queries for the
// departed user are dropped with it
func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context()); err != nil {
		s.logger.WithError(err).Warn("Logout completed with upstream error")
	}

	for _, resource := range []string{"patients", "appointments", "admissions", "treatments", "assignments", "bills", "rooms", "staff"} {
		s.cache.InvalidatePrefix(resource)
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"navigate":      guard.LoginPath,
		"notifications": s.notifications.Drain(),
	})
}

// requireSession returns the request's session; the auth gate guarantees it
// on every authenticated route
func (s *Service) requireSession(r *http.Request) *types.Session {
	if sess := guard.FromContext(r.Context()); sess != nil {
		return sess
	}
	return s.sessions.Current()
}

func (s *Service) writeJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Service) writeErrorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSONResponse(w, status, map[string]string{"message": message})
}

// fetchList runs a list query through the cache under the canonical key
func (s *Service) fetchList(ctx context.Context, key querycache.Key, revalidate bool, fn querycache.FetchFunc) (interface{}, error) {
	return s.cache.Fetch(ctx, key, s.listPolicy, revalidate, fn)
}

// fetchReference runs a reference-data query with the fixed TTL policy
func (s *Service) fetchReference(ctx context.Context, key querycache.Key, fn querycache.FetchFunc) (interface{}, error) {
	return s.cache.Fetch(ctx, key, s.refPolicy, false, fn)
}
