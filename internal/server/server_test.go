package server

import (
	"context"
	"net/http"
	"testing"
)

func TestNewTimeouts(t *testing.T) {
	s := New(":0", http.NewServeMux())
	if s.httpServer.ReadHeaderTimeout != readHeaderTimeout {
		t.Fatalf("read header timeout %v", s.httpServer.ReadHeaderTimeout)
	}
	if s.httpServer.IdleTimeout != idleTimeout {
		t.Fatalf("idle timeout %v", s.httpServer.IdleTimeout)
	}
	// whole-request write timeouts would cut off long extractions
	if s.httpServer.WriteTimeout != 0 {
		t.Fatalf("write timeout %v", s.httpServer.WriteTimeout)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	s := New(":0", http.NewServeMux())
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
