package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freshmind/internal/domain"
	"freshmind/internal/middleware"
	"freshmind/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newProfileTestRouter(profiles service.ProfileService) http.Handler {
	handler := NewProfileHandler(profiles, zap.NewNop())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.SessionIDKey, "test-session")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	handler.RegisterRoutes(router)
	return router
}

func TestProfileLifecycle(t *testing.T) {
	router := newProfileTestRouter(&stubProfileService{})

	// No profile yet.
	req := httptest.NewRequest("GET", "/api/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET before save status = %d, want 404", w.Code)
	}

	// Save.
	body := `{"name":"김지은","birthDate":"2004-03-15","gender":"F"}`
	req = httptest.NewRequest("PUT", "/api/profile", strings.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var saved domain.UserProfile
	if err := json.NewDecoder(w.Body).Decode(&saved); err != nil {
		t.Fatalf("failed to decode saved profile: %v", err)
	}
	if saved.Name != "김지은" || saved.Gender != domain.GenderFemale {
		t.Errorf("saved profile = %+v", saved)
	}

	// Load.
	req = httptest.NewRequest("GET", "/api/profile", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET after save status = %d, want 200", w.Code)
	}

	// Clear.
	req = httptest.NewRequest("DELETE", "/api/profile", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/profile", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after clear status = %d, want 404", w.Code)
	}
}

func TestSaveProfileValidation(t *testing.T) {
	router := newProfileTestRouter(&stubProfileService{})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"birthDate":"2004-03-15","gender":"F"}`},
		{"missing birth date", `{"name":"김지은","gender":"F"}`},
		{"bad birth date format", `{"name":"김지은","birthDate":"15-03-2004","gender":"F"}`},
		{"bad gender", `{"name":"김지은","birthDate":"2004-03-15","gender":"X"}`},
		{"not json", `name=김지은`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/api/profile", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
