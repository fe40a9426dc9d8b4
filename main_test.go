package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCorsMiddleware_Preflight(t *testing.T) {
	called := false
	h := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/state", nil))
	if rec.Code != http.StatusOK || called {
		t.Errorf("preflight: status %d, handler called %t", rec.Code, called)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if !called {
		t.Error("GET not passed through")
	}
}

func TestLoadController_BundledConfig(t *testing.T) {
	for _, key := range []string{"basic_training", "precision_strike", "artillery_barrage"} {
		ctrl, err := loadController("sector.yaml", key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if ctrl.Turn() != 1 || len(ctrl.Arsenal()) == 0 {
			t.Errorf("%s: turn %d arsenal %d", key, ctrl.Turn(), len(ctrl.Arsenal()))
		}
	}
	if _, err := loadController("sector.yaml", "no_such_scenario"); err == nil {
		t.Error("unknown scenario accepted")
	}
}
