package serverstate

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gaspardpetit/larchmock/internal/logx"
)

// RedisStore implements Store backed by a Redis deployment so every replica
// of the mock reports the same ready/draining state.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ctx    context.Context
}

const redisKey = "larchmock:state"

// NewRedisStore connects to the given Redis URL and returns a Store.
// The underlying key is initialized to a default state if it does not exist.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	opts, err := parseRedisURL(addr)
	if err != nil {
		return nil, err
	}
	c := redis.NewUniversalClient(opts)
	rs := &RedisStore{client: c, key: redisKey, ctx: context.WithoutCancel(ctx)}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	b, err := json.Marshal(State{Status: StatusNotReady})
	if err != nil {
		return nil, err
	}
	if err := c.SetNX(pingCtx, rs.key, b, 0).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis init state: %w", err)
	}
	return rs, nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error { return r.client.Close() }

// parseRedisURL turns addr into client options. A bare host:port is used as
// is; otherwise redis:// and rediss:// URLs are accepted, with a
// comma-separated host list selecting cluster mode and the database taken
// from the path or the "db" query parameter.
func parseRedisURL(addr string) (*redis.UniversalOptions, error) {
	if !strings.Contains(addr, "://") {
		return &redis.UniversalOptions{Addrs: []string{addr}}, nil
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("redis: unsupported URL scheme %q", u.Scheme)
	}

	opts := &redis.UniversalOptions{Addrs: strings.Split(u.Host, ",")}
	if u.User != nil {
		opts.Username = u.User.Username()
		opts.Password, _ = u.User.Password()
	}
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	db := strings.TrimPrefix(u.Path, "/")
	if db == "" {
		db = u.Query().Get("db")
	}
	if db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("redis: invalid db %q: %w", db, err)
		}
		opts.DB = n
	}
	return opts, nil
}

func (r *RedisStore) Load() State {
	b, err := r.client.Get(r.ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{Status: StatusNotReady}
		}
		logx.Log.Warn().Err(err).Msg("load server state")
		return State{Status: StatusUnknown}
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		logx.Log.Warn().Err(err).Msg("decode server state")
		return State{Status: StatusUnknown}
	}
	return st
}

func (r *RedisStore) Store(s State) {
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := r.client.Set(r.ctx, r.key, b, 0).Err(); err != nil {
		logx.Log.Error().Err(err).Str("status", s.Status).Msg("store server state")
	}
}
