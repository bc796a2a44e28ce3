package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), "://not-a-url", time.Second); err == nil {
		t.Fatal("expected error for invalid Redis URL")
	}
}

func TestNewFromClient_DefaultTTL(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewFromClient(client, 0)
	if c.ttl != DefaultUsersTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultUsersTTL)
	}

	c = NewFromClient(client, time.Minute)
	if c.ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", c.ttl)
	}
}
