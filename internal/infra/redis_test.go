package infra

import (
	"context"
	"os"
	"testing"
	"time"

	"charter/internal/modules/pricing"
)

// Runs only when CHARTER_REDIS_ADDR points at a live Redis.
func TestRedisQuoteCacheIntegration(t *testing.T) {
	addr := os.Getenv("CHARTER_REDIS_ADDR")
	if addr == "" {
		t.Skip("CHARTER_REDIS_ADDR not set; skipping redis integration test")
	}

	ctx := context.Background()
	client, err := NewRedis(ctx, addr)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer client.Close()

	cache := pricing.NewStore(client, time.Minute)
	key := "charter:quote:integration-" + time.Now().Format("150405.000000")
	defer client.Del(ctx, key)

	want := pricing.Quote{AircraftModel: "Hawker 850XP", FlightHours: 1.5, FinalPrice: 42}
	if err := cache.Set(ctx, key, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := cache.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.AircraftModel != want.AircraftModel || got.FinalPrice != want.FinalPrice {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := NewRedis(ctx, "127.0.0.1:1"); err == nil {
		t.Fatal("expected ping error for unreachable redis")
	}
}
