//go:build integration
// +build integration

package test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/accounts"
	"github.com/MrEthical07/goSession/session"
)

func newIntegrationStore(t *testing.T) (*session.Store, *redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewStore(rdb, "gs", time.Hour)

	return store, rdb, mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func newIntegrationEngine(t *testing.T, mutate func(*goSession.Config)) (*goSession.Engine, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := goSession.DefaultConfig()
	cfg.Password.Cost = 4
	if mutate != nil {
		mutate(&cfg)
	}

	provider, err := accounts.NewRedisProvider(rdb, cfg.Session.RedisPrefix, cfg.Password.Cost)
	if err != nil {
		t.Fatalf("account provider: %v", err)
	}

	engine, err := goSession.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAccountProvider(provider).
		WithSecrets([]byte("integration-access-secret"), []byte("integration-refresh-secret")).
		Build()
	if err != nil {
		t.Fatalf("engine build: %v", err)
	}

	return engine, func() {
		engine.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

func registerUser(t *testing.T, engine *goSession.Engine, email string) *goSession.TokenPair {
	t.Helper()
	pair, err := engine.Register(context.Background(), goSession.RegisterRequest{
		Username: "user",
		Email:    email,
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return pair
}
