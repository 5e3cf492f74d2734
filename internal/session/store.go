package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/logger"
	"github.com/fikertekiflu/hospital/pkg/monitoring"
	"github.com/fikertekiflu/hospital/pkg/types"
)

// tokenClaims mirrors the claims the API server puts into its bearer tokens
type tokenClaims struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Role          string `json:"role"`
	LinkedStaffID string `json:"linked_staff_id,omitempty"`
	jwt.RegisteredClaims
}

// Store holds the authenticated session for the lifetime of the portal
// process. It is created once at bootstrap and torn down at shutdown; login
// sets the session exactly once, logout clears it exactly once.
type Store struct {
	mu       sync.RWMutex
	current  *types.Session
	auth     *upstream.AuthClient
	logger   *logger.Logger
	notifier Notifier
}

// NewStore creates the session store
func NewStore(auth *upstream.AuthClient, notifier Notifier, log *logger.Logger) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Store{
		auth:     auth,
		logger:   log,
		notifier: notifier,
	}
}

// Login exchanges credentials for a session. On failure no session is
// created and the error carries the server's message.
func (s *Store) Login(ctx context.Context, creds types.Credentials) (*types.Session, error) {
	token, err := s.auth.Login(ctx, creds)
	if err != nil {
		monitoring.RecordAuthAttempt(false)
		s.logger.Audit(creds.Username, "login", "session", false, nil)
		s.notifier.Notify(Event{Level: LevelError, Message: upstream.ErrorMessage(err)})
		return nil, err
	}

	sess, err := sessionFromToken(token.AccessToken)
	if err != nil {
		s.logger.WithError(err).Error("Failed to decode session token")
		s.notifier.Notify(Event{Level: LevelError, Message: upstream.GenericFailureMessage})
		return nil, err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	monitoring.RecordAuthAttempt(true)
	s.logger.Audit(sess.UserID, "login", "session", true, map[string]interface{}{"role": sess.Role})
	s.notifier.Notify(Event{Level: LevelInfo, Message: "Signed in as " + sess.FullName})

	return sess, nil
}

// Logout clears the session unconditionally, then attempts to revoke the
// token server-side. A failed revoke never resurrects the session.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	sess := s.current
	s.current = nil
	s.mu.Unlock()

	if sess == nil {
		return nil
	}

	if err := s.auth.LogoutWithToken(ctx, sess.Token); err != nil {
		s.logger.WithUserID(sess.UserID).WithError(err).Warn("Server-side logout failed")
	}

	s.logger.Audit(sess.UserID, "logout", "session", true, nil)
	s.notifier.Notify(Event{Level: LevelInfo, Message: "Signed out"})

	return nil
}

// Current returns the active session, or nil when unauthenticated
func (s *Store) Current() *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current != nil && s.current.Expired() {
		return nil
	}
	return s.current
}

// IsAuthenticated reports whether a non-expired session is held
func (s *Store) IsAuthenticated() bool {
	return s.Current() != nil
}

// Token implements upstream.TokenSource for every resource client call
func (s *Store) Token() string {
	if sess := s.Current(); sess != nil {
		return sess.Token
	}
	return ""
}

// Close tears the store down at shutdown
func (s *Store) Close() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// sessionFromToken builds a session from the bearer token's claims. The
// token is decoded without signature verification: only the API server holds
// the signing secret, and it revalidates the signature on every call.
func sessionFromToken(raw string) (*types.Session, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("token carries no user id")
	}

	sess := &types.Session{
		UserID:        claims.UserID,
		Username:      claims.Username,
		FullName:      claims.FullName,
		Role:          types.Role(claims.Role),
		LinkedStaffID: claims.LinkedStaffID,
		Token:         raw,
	}

	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}

	if sess.FullName == "" {
		sess.FullName = sess.Username
	}

	return sess, nil
}
