package redis

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/onrack-backend/pkg/config"
)

func TestOptionsFromConfigAddressFallback(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:  "cache.internal:6379",
		Password: "hunter2",
		DB:       3,
	})
	if err != nil {
		t.Fatalf("address-only config must build options, got %v", err)
	}
	if opts.Addr != "cache.internal:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.Password != "hunter2" || opts.DB != 3 {
		t.Fatalf("credentials not carried over: password=%q db=%d", opts.Password, opts.DB)
	}
}

func TestOptionsFromConfigRejectsEmpty(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected an error when neither url nor address is set")
	}
}

func TestOptionsFromConfigPrefersURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:     "redis://localhost:6380/1",
		Address: "ignored:6379",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 1 {
		t.Fatalf("url must win over address: addr=%q db=%d", opts.Addr, opts.DB)
	}
}

func TestCounterKeyFormat(t *testing.T) {
	client := &Client{}
	if got := client.CounterKey("65f0c1"); got != "OnRackProduct:65f0c1" {
		t.Fatalf("unexpected counter key %s", got)
	}
}

func TestCounterLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.SetCounter(ctx, "p1", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := client.GetCounter(ctx, "p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || value != 0 {
		t.Fatalf("expected initialized zero counter, got value=%d ok=%v", value, ok)
	}

	if _, err := client.IncrCounter(ctx, "p1"); err != nil {
		t.Fatalf("incr failed: %v", err)
	}
	if _, err := client.IncrCounter(ctx, "p1"); err != nil {
		t.Fatalf("incr failed: %v", err)
	}
	value, ok, err = client.GetCounter(ctx, "p1")
	if err != nil || !ok || value != 2 {
		t.Fatalf("expected counter 2, got value=%d ok=%v err=%v", value, ok, err)
	}

	if _, err := client.DecrCounterBy(ctx, "p1", 2); err != nil {
		t.Fatalf("decr failed: %v", err)
	}
	value, _, err = client.GetCounter(ctx, "p1")
	if err != nil || value != 0 {
		t.Fatalf("expected counter back at 0, got %d err=%v", value, err)
	}
}

func TestGetCounterMissingKeyIsNotAnError(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	value, ok, err := client.GetCounter(ctx, "never-written")
	if err != nil {
		t.Fatalf("missing key must not error, got %v", err)
	}
	if ok || value != 0 {
		t.Fatalf("expected (0,false) for missing key, got value=%d ok=%v", value, ok)
	}
}

func TestIncrOnMissingKeyStartsAtOne(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	count, err := client.IncrCounter(ctx, "fresh")
	if err != nil {
		t.Fatalf("incr failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 after first increment, got %d", count)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	current, _ := strconv.ParseInt(m.data[key], 10, 64)
	current++
	m.data[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (m *mockCmdable) DecrBy(ctx context.Context, key string, decrement int64) *redis.IntCmd {
	current, _ := strconv.ParseInt(m.data[key], 10, 64)
	current -= decrement
	m.data[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
