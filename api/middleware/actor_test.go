package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rbeltranc/stitchmarket-backend/pkg/auth"
	"github.com/rbeltranc/stitchmarket-backend/pkg/config"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "stitchmarket-test",
		ExpirationMinutes: 5,
	}
}

func captureActor(t *testing.T, handler func(http.Handler) http.Handler, req *http.Request) (types.Actor, bool, int) {
	t.Helper()
	var actor types.Actor
	var found bool
	rec := httptest.NewRecorder()
	handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, found = ActorFromContext(r.Context())
	})).ServeHTTP(rec, req)
	return actor, found, rec.Code
}

func TestResolveActorFromBearerToken(t *testing.T) {
	cfg := jwtTestConfig()
	userID := uuid.New()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.MemberRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	actor, found, code := captureActor(t, ResolveActor(cfg, nil), req)
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if !found {
		t.Fatal("expected an actor")
	}
	if !actor.IsUser() || actor.ID != userID.String() {
		t.Fatalf("unexpected actor: %v", actor)
	}
}

func TestResolveActorFromSessionHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-42")

	actor, found, code := captureActor(t, ResolveActor(jwtTestConfig(), nil), req)
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if !found {
		t.Fatal("expected an actor")
	}
	if actor.IsUser() || actor.ID != "sess-42" {
		t.Fatalf("unexpected actor: %v", actor)
	}
}

func TestResolveActorRejectsBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	_, found, code := captureActor(t, ResolveActor(jwtTestConfig(), nil), req)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if found {
		t.Fatal("no actor should be resolved from a bad token")
	}
}

func TestResolveActorPrefersTokenOverSession(t *testing.T) {
	cfg := jwtTestConfig()
	userID := uuid.New()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.MemberRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Session-Id", "sess-42")

	actor, _, _ := captureActor(t, ResolveActor(cfg, nil), req)
	if !actor.IsUser() {
		t.Fatalf("token must win over session header, got %v", actor)
	}
}

func TestRequireActorRejectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireActor(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	cfg := jwtTestConfig()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.MemberRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	chain := ResolveActor(cfg, nil)(RequireRole(enums.MemberRoleAdmin, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for non-admin")
	})))
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
