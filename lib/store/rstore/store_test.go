package rstore

import (
	"bytes"
	"context"
	"errors"
	"github.com/ValentinKolb/kvsolar/lib/common"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"github.com/alicebob/miniredis/v2"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), common.ClientConfig{
		Endpoints:     []string{mr.Addr()},
		TimeoutSecond: 1,
	})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		s, _ := newTestStore(t)

		if err := s.Set(ctx, "key", []byte("value")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		val, ok, err := s.Get(ctx, "key")
		if err != nil || !ok {
			t.Fatalf("Get failed: ok=%v err=%v", ok, err)
		}
		if !bytes.Equal(val, []byte("value")) {
			t.Errorf("expected value, got %s", val)
		}
	})

	t.Run("get missing key", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, ok, err := s.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("expected missing key to return loaded=false")
		}
	})

	t.Run("setE expires", func(t *testing.T) {
		s, mr := newTestStore(t)

		if err := s.SetE(ctx, "key", []byte("value"), 10*time.Second); err != nil {
			t.Fatalf("SetE failed: %v", err)
		}
		if ttl := mr.TTL("key"); ttl != 10*time.Second {
			t.Errorf("expected ttl of 10s, got %v", ttl)
		}
		mr.FastForward(11 * time.Second)
		if found, _ := s.Has(ctx, "key"); found {
			t.Error("expected key to be gone after expiration")
		}
	})

	t.Run("setEIfUnset keeps old value", func(t *testing.T) {
		s, _ := newTestStore(t)

		_ = s.Set(ctx, "key", []byte("old"))
		if err := s.SetEIfUnset(ctx, "key", []byte("new"), 0); err != nil {
			t.Fatalf("SetEIfUnset failed: %v", err)
		}
		val, _, _ := s.Get(ctx, "key")
		if string(val) != "old" {
			t.Errorf("expected old value, got %s", val)
		}
	})

	t.Run("delete and has", func(t *testing.T) {
		s, _ := newTestStore(t)

		_ = s.Set(ctx, "key", []byte("value"))
		if found, _ := s.Has(ctx, "key"); !found {
			t.Fatal("expected key to exist")
		}
		if err := s.Delete(ctx, "key"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if found, _ := s.Has(ctx, "key"); found {
			t.Error("expected key to be deleted")
		}
	})

	t.Run("expire", func(t *testing.T) {
		s, mr := newTestStore(t)

		_ = s.Set(ctx, "key", []byte("value"))
		if err := s.Expire(ctx, "key", 5*time.Second); err != nil {
			t.Fatalf("Expire failed: %v", err)
		}
		if ttl := mr.TTL("key"); ttl != 5*time.Second {
			t.Errorf("expected ttl of 5s, got %v", ttl)
		}
	})
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	s, err := NewRedisStore(ctx, common.ClientConfig{
		Endpoints:     []string{mr.Addr()},
		TimeoutSecond: 1,
		RetryCount:    -1,
	})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer s.Close()
	mr.Close()

	err = s.Set(ctx, "key", []byte("value"))
	if !errors.Is(err, store.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestNewRedisStoreWithoutEndpoints(t *testing.T) {
	_, err := NewRedisStore(context.Background(), common.ClientConfig{})
	if !errors.Is(err, store.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestTrimEndpoints(t *testing.T) {
	got := trimEndpoints([]string{" redis://localhost:6379", "", "10.0.0.1:6380 "})
	if len(got) != 2 || got[0] != "localhost:6379" || got[1] != "10.0.0.1:6380" {
		t.Errorf("unexpected endpoints: %v", got)
	}
}
