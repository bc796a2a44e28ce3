package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer is a bytes.Buffer safe for the server goroutine to log into.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testOptions() Options {
	return Options{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 2 * time.Second,
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	var logs syncBuffer
	srv := New(handler, testOptions(), slog.New(slog.NewTextHandler(&logs, nil)))

	var order []string
	srv.OnShutdown("database", func(ctx context.Context) error {
		order = append(order, "database")
		return nil
	})
	srv.OnShutdown("cache", func(ctx context.Context) error {
		order = append(order, "cache")
		return nil
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("unexpected body %q", body)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if !reflect.DeepEqual(order, []string{"cache", "database"}) {
		t.Errorf("expected LIFO shutdown order, got %v", order)
	}

	out := logs.String()
	if n := strings.Count(out, "starting"); n != 1 {
		t.Errorf("expected one startup line, got %d: %s", n, out)
	}
	if !strings.Contains(out, "addr="+ln.Addr().String()) {
		t.Errorf("startup line should carry the listen address: %s", out)
	}
}

func TestServer_ShutdownErrorsAreReported(t *testing.T) {
	srv := New(http.NotFoundHandler(), testOptions(), testLogger())

	closeErr := errors.New("close failed")
	ran := false
	srv.OnShutdown("database", func(ctx context.Context) error {
		ran = true
		return nil
	})
	srv.OnShutdown("cache", func(ctx context.Context) error {
		return closeErr
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	if !errors.Is(err, closeErr) {
		t.Fatalf("expected shutdown error, got %v", err)
	}
	if !ran {
		t.Error("later components must still be stopped after an error")
	}
}

func TestServer_Addr(t *testing.T) {
	opts := testOptions()
	opts.Port = 3000

	srv := New(http.NotFoundHandler(), opts, testLogger())
	if srv.Addr() != ":3000" {
		t.Errorf("Addr() = %q, want :3000", srv.Addr())
	}
}
