package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/auth/session"
	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
)

var testJWT = config.JWTConfig{Secret: "test-secret", Issuer: "shipment-tracker", ExpirationMinutes: 60}

type stubSessions map[string]uuid.UUID

func (s stubSessions) Lookup(_ context.Context, sessionID string) (uuid.UUID, error) {
	owner, ok := s[sessionID]
	if !ok {
		return uuid.Nil, session.ErrSessionNotFound
	}
	return owner, nil
}

type stubAccounts map[uuid.UUID]*models.UserAccount

func (s stubAccounts) FindByID(_ context.Context, id uuid.UUID) (*models.UserAccount, error) {
	account, ok := s[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return account, nil
}

func newAuthFixture(t *testing.T, isAdmin bool) (*SessionAuth, *http.Cookie, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	token, claims, err := pkgAuth.MintSessionToken(testJWT, time.Now(), pkgAuth.SessionTokenPayload{UserID: userID})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	auth := NewSessionAuth(
		testJWT,
		config.CookieConfig{Name: "auth"},
		stubSessions{claims.ID: userID},
		stubAccounts{userID: {ID: userID, IsAdmin: isAdmin}},
		nil,
	)
	return auth, &http.Cookie{Name: "auth", Value: token}, userID
}

func TestRequireAttachesActorFromDatabase(t *testing.T) {
	auth, cookie, userID := newAuthFixture(t, true)

	var got pkgAuth.Actor
	var sessionID string
	handler := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ActorFromContext(r.Context())
		sessionID = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got.UserID != userID || !got.IsAdmin {
		t.Fatalf("unexpected actor %+v", got)
	}
	if sessionID == "" {
		t.Fatal("expected session id in context")
	}
}

func TestRequireRejectsMissingAndRevokedSessions(t *testing.T) {
	auth, cookie, _ := newAuthFixture(t, false)
	auth.sessions = stubSessions{}

	handler := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for name, req := range map[string]*http.Request{
		"no cookie": httptest.NewRequest(http.MethodPost, "/graphql", nil),
		"revoked":   httptest.NewRequest(http.MethodPost, "/graphql", nil),
	} {
		if name == "revoked" {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestRequireRejectsForgedToken(t *testing.T) {
	auth, _, _ := newAuthFixture(t, false)

	other := testJWT
	other.Secret = "someone-else"
	token, _, err := pkgAuth.MintSessionToken(other, time.Now(), pkgAuth.SessionTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalPassesAnonymousRequests(t *testing.T) {
	auth, _, _ := newAuthFixture(t, false)

	called := false
	handler := auth.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := ActorFromContext(r.Context()); ok {
			t.Fatal("expected no actor")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/logout", nil))
	if !called {
		t.Fatal("expected handler to run")
	}
}
