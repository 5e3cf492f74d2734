package views

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fikertekiflu/hospital/pkg/types"
)

func TestHomeRedirects(t *testing.T) {
	p := newTestPortal(t, nil)

	rec := p.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	p.loginAs(t, types.RoleReceptionist, "staff-3")

	rec = p.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLoginReturnsSessionAndNavigation(t *testing.T) {
	p := newTestPortal(t, nil)
	p.loginAs(t, types.RoleDoctor, "staff-7")

	sess := p.store.Current()
	require.NotNil(t, sess)
	assert.Equal(t, types.RoleDoctor, sess.Role)
	assert.Equal(t, "staff-7", sess.LinkedStaffID)
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	p := newTestPortal(t, nil)
	p.mu.Lock()
	p.failLogin = true
	p.mu.Unlock()

	rec := p.do(t, http.MethodPost, "/login", map[string]string{"username": "x", "password": "y"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid username or password", body.Error)
	assert.False(t, p.store.IsAuthenticated())
}

func TestDashboardDispatchesByRole(t *testing.T) {
	p := newTestPortal(t, nil)
	p.loginAs(t, types.RoleDoctor, "staff-7")

	rec := p.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc DashboardDoc
	decodeDoc(t, rec, &doc)
	assert.Equal(t, "DoctorDashboard", doc.ViewSet.Dashboard.Component)
	assert.Equal(t, types.RoleDoctor, doc.ViewSet.Role)
}

func TestLayoutCarriesIdentityAndSidebar(t *testing.T) {
	p := newTestPortal(t, nil)
	p.loginAs(t, types.RoleNurse, "staff-n1")

	rec := p.do(t, http.MethodGet, "/layout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc LayoutDoc
	decodeDoc(t, rec, &doc)
	assert.Equal(t, "Test nurse", doc.Header.FullName)
	assert.Equal(t, "nurse", doc.Header.Role)
	assert.Equal(t, "NurseSidebar", doc.Sidebar.Component)
}

func TestAuthenticatedRoutesRedirectAnonymous(t *testing.T) {
	p := newTestPortal(t, nil)

	for _, path := range []string{"/dashboard", "/patients", "/appointments", "/billing"} {
		rec := p.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestWriteRoutesRoleGated(t *testing.T) {
	p := newTestPortal(t, nil)
	p.loginAs(t, types.RoleWardBoy, "staff-w1")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/patients"},
		{http.MethodPost, "/appointments"},
		{http.MethodPost, "/admissions"},
		{http.MethodPost, "/treatments"},
		{http.MethodPost, "/billing"},
		{http.MethodGet, "/admin/staff"},
	}

	for _, tt := range tests {
		rec := p.do(t, tt.method, tt.path, map[string]string{})
		assert.Equal(t, http.StatusFound, rec.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"), "%s %s", tt.method, tt.path)
	}
}

func TestLogoutClearsSessionAndCache(t *testing.T) {
	var listCalls int32
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&listCalls, 1)
		writeJSON(w, http.StatusOK, []*types.Patient{})
	})

	p.loginAs(t, types.RoleAdmin, "staff-1")

	rec := p.do(t, http.MethodGet, "/patients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, p.cache.Len())

	rec = p.do(t, http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Navigate string `json:"navigate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/login", body.Navigate)

	// The departed user's cached queries are gone and the session with them
	assert.Zero(t, p.cache.Len())
	assert.False(t, p.store.IsAuthenticated())

	rec = p.do(t, http.MethodGet, "/patients", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestPatientSearchDebounced(t *testing.T) {
	var searches int32
	var lastTerm atomic.Value
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&searches, 1)
		lastTerm.Store(r.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, []*types.Patient{})
	})

	p.loginAs(t, types.RoleReceptionist, "staff-3")

	for _, term := range []string{"Jane", "Jane D"} {
		rec := p.do(t, http.MethodPost, "/patients/search", map[string]string{"term": term})
		require.Equal(t, http.StatusAccepted, rec.Code)
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&searches) == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&searches))
	assert.Equal(t, "Jane D", lastTerm.Load())
}

func TestListPolicyBoundsStaleness(t *testing.T) {
	p := newTestPortal(t, nil)

	assert.Equal(t, 60*time.Second, p.service.listPolicy.TTL)
	assert.True(t, p.service.listPolicy.RevalidateOnFocus)
}
