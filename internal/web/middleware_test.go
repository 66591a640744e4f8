package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLocalhostOnly_AllowsLocalhost(t *testing.T) {
	handler := localhostOnly(okHandler())

	for _, host := range []string{"localhost:3000", "127.0.0.1:3000", "[::1]:3000", "localhost", "127.0.0.1"} {
		t.Run(host, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Host = host
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("expected 200 for host %q, got %d", host, w.Code)
			}
		})
	}
}

func TestLocalhostOnly_BlocksRemoteHosts(t *testing.T) {
	handler := localhostOnly(okHandler())

	for _, host := range []string{"evil.com:3000", "192.168.1.1:3000", "10.0.0.1:3000", "169.254.169.254:3000"} {
		t.Run(host, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Host = host
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != http.StatusForbidden {
				t.Errorf("expected 403 for host %q, got %d", host, w.Code)
			}
		})
	}
}

func TestSecurityHeaders_Present(t *testing.T) {
	handler := securityHeaders(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", "default-src 'self'; script-src 'unsafe-inline'; style-src 'unsafe-inline'; img-src 'self' data: https:"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := w.Header().Get(tt.header); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestRequestLog_RecordsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	handler := requestLog(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/projects", nil))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d request entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.ErrorLevel {
		t.Errorf("5xx should log at error level, got %s", e.Level)
	}
	fields := e.ContextMap()
	if fields["path"] != "/projects" || fields["status"] != int64(http.StatusBadGateway) {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestRequestLog_ImplicitOK(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := requestLog(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["status"] != int64(http.StatusOK) {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
