package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func newRequestIDHarness(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var echoed string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequestID(nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
		echoed = w.Header().Get("X-Request-Id")
	}), &echoed
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	handler, echoed := newRequestIDHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if _, err := uuid.Parse(*echoed); err != nil {
		t.Fatalf("response id %q is not a uuid: %v", *echoed, err)
	}
}

func TestRequestIDHonorsValidClientID(t *testing.T) {
	handler, echoed := newRequestIDHarness(t)
	clientID := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", clientID)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if *echoed != clientID {
		t.Fatalf("response id = %q, want the client's %q", *echoed, clientID)
	}
}

func TestRequestIDReplacesMalformedClientID(t *testing.T) {
	handler, echoed := newRequestIDHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "../../etc/passwd")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if *echoed == "../../etc/passwd" {
		t.Fatal("malformed client id must not be echoed back")
	}
	if _, err := uuid.Parse(*echoed); err != nil {
		t.Fatalf("replacement id %q is not a uuid: %v", *echoed, err)
	}
}
