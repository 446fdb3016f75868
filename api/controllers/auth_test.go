package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/api/middleware"
	"github.com/distributeaid/shipment-tracker/internal/auth"
	"github.com/distributeaid/shipment-tracker/internal/users"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

var testCookie = config.CookieConfig{Name: "auth", Domain: "tracker.example", Secure: true}

type stubAuthService struct {
	loginErr    error
	loggedOut   string
	resetEmail  string
	resetIP     string
	registerReq auth.RegisterRequest
}

func (s *stubAuthService) Register(_ context.Context, req auth.RegisterRequest, _ string) (*users.UserDTO, error) {
	s.registerReq = req
	return &users.UserDTO{ID: uuid.New(), Email: req.Email, Name: req.Name}, nil
}

func (s *stubAuthService) Confirm(context.Context, auth.ConfirmRequest) error { return nil }

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.LoginResult{
		Token:     "signed.jwt.value",
		SessionID: "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &users.UserDTO{ID: uuid.New(), Email: req.Email},
	}, nil
}

func (s *stubAuthService) Logout(_ context.Context, sessionID string) error {
	s.loggedOut = sessionID
	return nil
}

func (s *stubAuthService) RequestPasswordReset(_ context.Context, req auth.PasswordTokenRequest, remoteIP string) error {
	s.resetEmail = req.Email
	s.resetIP = remoteIP
	return nil
}

func (s *stubAuthService) SetNewPassword(context.Context, auth.NewPasswordRequest) error { return nil }

type stubAccounts map[uuid.UUID]*models.UserAccount

func (s stubAccounts) FindByID(_ context.Context, id uuid.UUID) (*models.UserAccount, error) {
	if account, ok := s[id]; ok {
		return account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestAuthLoginSetsSessionCookie(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"alex@example.com","password":"correct horse"}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, testCookie, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "auth" || c.Value != "signed.jwt.value" {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie flags not applied: %+v", c)
	}
	if strings.Contains(rec.Body.String(), "signed.jwt.value") {
		t.Fatal("token must not be echoed in the body")
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"alex@example.com","password":"nope"}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, testCookie, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie expected on failure")
	}
}

func TestAuthRegisterValidatesBody(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":"Alex","email":"not-an-email","password":"short"}`))
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body.Error.Details["email"]; !ok {
		t.Fatalf("expected email field error, got %v", body.Error.Details)
	}
	if _, ok := body.Error.Details["password"]; !ok {
		t.Fatalf("expected password field error, got %v", body.Error.Details)
	}
	if svc.registerReq.Email != "" {
		t.Fatal("service must not be called with an invalid body")
	}
}

func TestAuthLogoutRevokesAndClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()

	AuthLogout(svc, testCookie, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", cookies)
	}
}

func TestAuthMe(t *testing.T) {
	id := uuid.New()
	accounts := stubAccounts{id: {ID: id, Email: "captain@example.com", Name: "Captain", IsAdmin: true}}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(middleware.WithActor(req.Context(), pkgAuth.Actor{UserID: id, IsAdmin: true}))
	rec := httptest.NewRecorder()
	AuthMe(accounts, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.ID != id || !body.Data.IsAdmin || body.Data.Email != "captain@example.com" {
		t.Fatalf("unexpected profile %+v", body.Data)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("profile must not expose password data")
	}

	rec = httptest.NewRecorder()
	AuthMe(accounts, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor, got %d", rec.Code)
	}
}

func TestPasswordTokenAccepted(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/password/token", strings.NewReader(`{"email":"nobody@example.com","captchaToken":"x"}`))
	req.RemoteAddr = "198.51.100.4:5555"
	rec := httptest.NewRecorder()

	PasswordToken(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if svc.resetEmail != "nobody@example.com" || svc.resetIP != "198.51.100.4" {
		t.Fatalf("unexpected reset call %q from %q", svc.resetEmail, svc.resetIP)
	}
}
