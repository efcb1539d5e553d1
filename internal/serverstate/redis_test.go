package serverstate

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	rs, err := NewRedisStore(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer rs.Close()

	prev := Active()
	UseStore(rs)
	defer UseStore(prev)

	if got := GetState(); got != StatusNotReady {
		t.Fatalf("initial state = %q; want %q", got, StatusNotReady)
	}

	SetState(StatusReady)
	if got := GetState(); got != StatusReady {
		t.Fatalf("state after SetState = %q; want %q", got, StatusReady)
	}

	StartDrain()
	if !IsDraining() {
		t.Fatalf("IsDraining = false; want true")
	}

	// A second replica sees the persisted state.
	rs2, err := NewRedisStore(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer rs2.Close()
	if st := rs2.Load(); st.Status != StatusDraining || !st.Draining {
		t.Fatalf("persisted state = %#v; want draining", st)
	}
}

func TestRedisStoreCorruptValue(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	rs, err := NewRedisStore(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer rs.Close()

	if err := mr.Set(redisKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if st := rs.Load(); st.Status != StatusUnknown {
		t.Fatalf("status = %q; want %q", st.Status, StatusUnknown)
	}
	mr.Del(redisKey)
	if st := rs.Load(); st.Status != StatusNotReady {
		t.Fatalf("status after delete = %q; want %q", st.Status, StatusNotReady)
	}
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()
	if _, err := NewRedisStore(context.Background(), addr); err == nil {
		t.Fatalf("expected error connecting to a closed server")
	}
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		url      string
		addrs    int
		db       int
		password string
		tls      bool
	}{
		{"localhost:6379", 1, 0, "", false},
		{"redis://:pass@localhost:6379/1", 1, 1, "pass", false},
		{"redis://host1:6379,host2:6379/0", 2, 0, "", false},
		{"rediss://cache.internal:6380?db=3", 1, 3, "", true},
	}
	for _, tt := range tests {
		opts, err := parseRedisURL(tt.url)
		if err != nil {
			t.Fatalf("parseRedisURL(%q): %v", tt.url, err)
		}
		if len(opts.Addrs) != tt.addrs {
			t.Fatalf("%q addrs = %d; want %d", tt.url, len(opts.Addrs), tt.addrs)
		}
		if opts.DB != tt.db {
			t.Fatalf("%q db = %d; want %d", tt.url, opts.DB, tt.db)
		}
		if opts.Password != tt.password {
			t.Fatalf("%q password = %q; want %q", tt.url, opts.Password, tt.password)
		}
		if (opts.TLSConfig != nil) != tt.tls {
			t.Fatalf("%q tls = %v; want %v", tt.url, opts.TLSConfig != nil, tt.tls)
		}
	}
	for _, bad := range []string{"http://localhost:6379", "redis-sentinel://localhost:26379/mymaster", "redis://localhost:6379/zero"} {
		if _, err := parseRedisURL(bad); err == nil {
			t.Fatalf("parseRedisURL(%q): expected error", bad)
		}
	}
}
