package views

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/fikertekiflu/hospital/internal/querycache"
	"github.com/fikertekiflu/hospital/internal/session"
	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/config"
	"github.com/fikertekiflu/hospital/pkg/logger"
	"github.com/fikertekiflu/hospital/pkg/types"
)

// portal wires a full view service over a stub API server: the stub owns
// /auth/login and /auth/logout, everything else goes to the test's handler
type portal struct {
	service *Service
	router  *mux.Router
	store   *session.Store
	cache   *querycache.Cache

	mu         sync.Mutex
	issueRole  types.Role
	issueStaff string
	failLogin  bool
	apiHandler http.Handler
}

func newTestPortal(t *testing.T, api http.HandlerFunc) *portal {
	t.Helper()

	p := &portal{issueRole: types.RoleAdmin, issueStaff: "staff-1"}
	if api != nil {
		p.apiHandler = api
	} else {
		p.apiHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unexpected upstream call: "+r.URL.Path, http.StatusTeapot)
		})
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			p.mu.Lock()
			role, staff, fail := p.issueRole, p.issueStaff, p.failLogin
			p.mu.Unlock()

			if fail {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "Invalid username or password"})
				return
			}

			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"user_id":         "u-" + string(role),
				"username":        string(role) + ".user",
				"full_name":       "Test " + string(role),
				"role":            string(role),
				"linked_staff_id": staff,
				"exp":             time.Now().Add(time.Hour).Unix(),
			})
			raw, err := token.SignedString([]byte("stub-secret"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(types.AuthToken{AccessToken: raw, TokenType: "Bearer"})
		case "/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			p.apiHandler.ServeHTTP(w, r)
		}
	}))
	t.Cleanup(server.Close)

	log := logger.New("error")
	recorder := &session.Recorder{}

	var store *session.Store
	core := upstream.NewClient(server.URL, 5*time.Second, upstream.TokenSourceFunc(func() string {
		if store == nil {
			return ""
		}
		return store.Token()
	}), log)

	store = session.NewStore(upstream.NewAuthClient(core), recorder, log)
	cache := querycache.New(log)

	cfg := &config.Config{
		Cache: config.CacheConfig{
			ListStaleAfter: 60,
			ReferenceTTL:   300,
			SearchDebounce: 30,
		},
	}

	p.service = New(NewClients(core), cache, store, recorder, cfg, log)
	p.router = p.service.Router()
	p.store = store
	p.cache = cache

	t.Cleanup(p.service.Stop)
	t.Cleanup(store.Close)

	return p
}

// loginAs signs in through the /login route with a stub-issued token
func (p *portal) loginAs(t *testing.T, role types.Role, staffID string) {
	t.Helper()

	p.mu.Lock()
	p.issueRole = role
	p.issueStaff = staffID
	p.mu.Unlock()

	rec := p.do(t, http.MethodPost, "/login", map[string]string{
		"username": string(role) + ".user",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, p.store.IsAuthenticated())
}

func (p *portal) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	p.router.ServeHTTP(rec, req)
	return rec
}

func decodeDoc(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
