package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sgx-labs/folio/internal/contact"
)

func TestNewContactService_SQLiteLimiter(t *testing.T) {
	setupCommandTestSite(t)
	s, err := loadSite()
	if err != nil {
		t.Fatalf("loadSite: %v", err)
	}
	s.cfg.Contact.Limiter = "sqlite"
	s.cfg.Contact.RateLimitMax = 1

	svc, closeLimiter, err := newContactService(s.cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newContactService: %v", err)
	}
	defer closeLimiter()

	if _, err := os.Stat(s.cfg.LimiterDBPath()); err != nil {
		t.Fatalf("limiter db not created: %v", err)
	}

	// Unconfigured addressing is reported before the limiter is consulted.
	resp, code := svc.Submit(context.Background(), "203.0.113.9", contact.Request{})
	if code != http.StatusInternalServerError || resp.Error == "" {
		t.Fatalf("expected configuration error, got %d %+v", code, resp)
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestRunServe_ServesAndStops(t *testing.T) {
	setupCommandTestSite(t)
	s, err := loadSite()
	if err != nil {
		t.Fatalf("loadSite: %v", err)
	}
	s.cfg.Server.Addr = freeAddr(t)
	s.cfg.Server.LogLevel = "error"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, s, false) }()

	url := fmt.Sprintf("http://%s/api/explorer/projects?q=splunk", s.cfg.Server.Addr)
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never answered: %v", err)
	}
	var body struct {
		Count int `json:"count"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if decodeErr != nil || body.Count != 1 {
		t.Errorf("unexpected explorer response: count=%d err=%v", body.Count, decodeErr)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not stop after cancel")
	}
}
