package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":            ":8080",
		"  ":          ":8080",
		"9090":        ":9090",
		":9090":       ":9090",
		" 7000 ":      ":7000",
		"127.0.0.1:0": "127.0.0.1:0",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	srv := newHTTPServer(":1", http.NotFoundHandler(), 0)
	if srv.WriteTimeout != defaultWriteTimeout {
		t.Fatalf("default write timeout not applied: %v", srv.WriteTimeout)
	}
	srv = newHTTPServer(":1", http.NotFoundHandler(), 45*time.Second)
	if srv.WriteTimeout != 45*time.Second || srv.ReadHeaderTimeout != readHeaderTimeout {
		t.Fatalf("unexpected timeouts: %+v", srv)
	}
}

func TestServer_RunAndShutdown(t *testing.T) {
	s := &Server{}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown before run: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- s.Run("127.0.0.1:0", http.NotFoundHandler()) }()

	// wait until Run has installed the server
	deadline := time.Now().Add(2 * time.Second)
	for {
		time.Sleep(10 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := s.Shutdown(ctx)
		cancel()
		if err != nil {
			t.Fatalf("shutdown: %v", err)
		}
		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				t.Fatalf("expected ErrServerClosed, got %v", err)
			}
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not stop")
		}
	}
}
