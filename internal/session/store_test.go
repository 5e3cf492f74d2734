package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/logger"
	"github.com/fikertekiflu/hospital/pkg/types"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return raw
}

func doctorToken(t *testing.T) string {
	return signedToken(t, jwt.MapClaims{
		"user_id":         "u-doc-1",
		"username":        "amara.t",
		"full_name":       "Dr. Amara Tesfaye",
		"role":            "doctor",
		"linked_staff_id": "staff-7",
		"exp":             time.Now().Add(time.Hour).Unix(),
	})
}

func newTestStore(t *testing.T, handler http.HandlerFunc) (*Store, *Recorder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	recorder := &Recorder{}
	var store *Store
	core := upstream.NewClient(server.URL, 5*time.Second, upstream.TokenSourceFunc(func() string {
		if store == nil {
			return ""
		}
		return store.Token()
	}), logger.New("error"))

	store = NewStore(upstream.NewAuthClient(core), recorder, logger.New("error"))
	return store, recorder
}

func TestLoginSuccess(t *testing.T) {
	token := doctorToken(t)
	store, recorder := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var creds types.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "amara.t", creds.Username)

		json.NewEncoder(w).Encode(types.AuthToken{AccessToken: token, TokenType: "Bearer"})
	})

	sess, err := store.Login(context.Background(), types.Credentials{Username: "amara.t", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "u-doc-1", sess.UserID)
	assert.Equal(t, types.RoleDoctor, sess.Role)
	assert.Equal(t, "staff-7", sess.LinkedStaffID)
	assert.Equal(t, "Dr. Amara Tesfaye", sess.FullName)
	assert.Equal(t, token, store.Token())
	assert.True(t, store.IsAuthenticated())

	events := recorder.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, LevelInfo, events[0].Level)
	assert.Contains(t, events[0].Message, "Amara Tesfaye")
}

func TestLoginFailureCreatesNoSession(t *testing.T) {
	store, recorder := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid username or password"})
	})

	_, err := store.Login(context.Background(), types.Credentials{Username: "amara.t", Password: "wrong"})
	require.Error(t, err)

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Current())
	assert.Empty(t, store.Token())

	// Server rejection message is surfaced verbatim
	events := recorder.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, LevelError, events[0].Level)
	assert.Equal(t, "Invalid username or password", events[0].Message)
}

func TestLoginWithMalformedTokenFails(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.AuthToken{AccessToken: "not-a-jwt"})
	})

	_, err := store.Login(context.Background(), types.Credentials{Username: "x", Password: "y"})
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestLogoutClearsSessionEvenWhenRevokeFails(t *testing.T) {
	token := doctorToken(t)
	revokeCalled := false
	store, recorder := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(types.AuthToken{AccessToken: token})
		case "/auth/logout":
			revokeCalled = true
			// The revoke request still carries the parting token
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	_, err := store.Login(context.Background(), types.Credentials{Username: "amara.t", Password: "pw"})
	require.NoError(t, err)
	recorder.Drain()

	err = store.Logout(context.Background())
	require.NoError(t, err)

	assert.True(t, revokeCalled)
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Current())
	assert.Empty(t, store.Token())
}

func TestLogoutWithoutSessionIsNoop(t *testing.T) {
	store, recorder := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	})

	require.NoError(t, store.Logout(context.Background()))
	assert.Empty(t, recorder.Drain())
}

func TestExpiredTokenYieldsNoSession(t *testing.T) {
	expired := signedToken(t, jwt.MapClaims{
		"user_id":  "u1",
		"username": "old.user",
		"role":     "nurse",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})

	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.AuthToken{AccessToken: expired})
	})

	_, err := store.Login(context.Background(), types.Credentials{Username: "old.user", Password: "pw"})
	require.NoError(t, err)

	// The expired claim makes the session invisible to every reader
	assert.Nil(t, store.Current())
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestFullNameFallsBackToUsername(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"user_id":  "u2",
		"username": "frontdesk",
		"role":     "receptionist",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.AuthToken{AccessToken: token})
	})

	sess, err := store.Login(context.Background(), types.Credentials{Username: "frontdesk", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "frontdesk", sess.FullName)
}

func TestRecorderDrainClearsBuffer(t *testing.T) {
	r := &Recorder{}
	r.Notify(Event{Level: LevelInfo, Message: "one"})
	r.Notify(Event{Level: LevelError, Message: "two"})

	events := r.Drain()
	require.Len(t, events, 2)
	assert.Empty(t, r.Drain())
}
