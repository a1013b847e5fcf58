package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dscommerce/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func requestWithPrincipal(principal domain.Principal) *http.Request {
	req := httptest.NewRequest("POST", "/test", nil)
	return req.WithContext(context.WithValue(req.Context(), principalKey, principal))
}

func TestRequireAdmin(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	handler := RequireAdmin(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		request  *http.Request
		wantCode int
	}{
		{
			"admin passes",
			requestWithPrincipal(domain.Principal{UserID: uuid.New(), Roles: []string{domain.RoleAdmin}}),
			http.StatusOK,
		},
		{
			"client is forbidden",
			requestWithPrincipal(domain.Principal{UserID: uuid.New(), Roles: []string{domain.RoleClient}}),
			http.StatusForbidden,
		},
		{
			"mixed roles pass",
			requestWithPrincipal(domain.Principal{UserID: uuid.New(), Roles: []string{domain.RoleClient, domain.RoleAdmin}}),
			http.StatusOK,
		},
		{
			"no principal is forbidden",
			httptest.NewRequest("POST", "/test", nil),
			http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, tt.request)
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestRequireRoleCustomRole(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	handler := RequireRole(domain.RoleClient, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithPrincipal(domain.Principal{UserID: uuid.New(), Roles: []string{domain.RoleAdmin}}))
	if w.Code != http.StatusForbidden {
		t.Errorf("admin without client role should be forbidden, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithPrincipal(domain.Principal{UserID: uuid.New(), Roles: []string{domain.RoleClient}}))
	if w.Code != http.StatusOK {
		t.Errorf("client should pass, got %d", w.Code)
	}
}
