package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "tripbook/internal/adapters/redis"
)

type destination struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	var got destination
	ok, err := c.Get(ctx, "destination:abc12345", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "destination:abc12345", destination{Name: "Munnar", City: "Idukki"}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err = c.Get(ctx, "destination:abc12345", &got)
	if err != nil || !ok || got.Name != "Munnar" {
		t.Fatalf("expected hit, got %+v ok=%v err=%v", got, ok, err)
	}
	if !mr.Exists("tripbook:destination:abc12345") {
		t.Fatalf("expected prefixed key in redis, keys=%v", mr.Keys())
	}

	if err := c.Del(ctx, "destination:abc12345"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "destination:abc12345", &got)
	if ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "packages:", []string{"a"}, 10); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(11 * time.Second)

	var out []string
	if ok, _ := c.Get(ctx, "packages:", &out); ok {
		t.Fatalf("expected key to expire")
	}
}
