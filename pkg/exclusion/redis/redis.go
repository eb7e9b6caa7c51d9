// Package redis implements the exclusion store on a Redis sorted set scored by
// the time each id was recorded.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/exclusion"
	"github.com/mediocregopher/radix/v4"
)

// Store implements exclusion.Store on Redis.
type Store struct {
	client radix.Client
	key    string
	Now    func() time.Time
}

// New returns a new Store connected to address.
func New(ctx context.Context, address string, poolSize int) (*Store, error) {
	cfg := radix.PoolConfig{
		Size: poolSize,
	}

	client, err := cfg.New(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		key:    exclusion.StorageKey,
		Now:    time.Now,
	}, nil
}

// Load drops expired members and returns the remaining ones.
func (s *Store) Load(ctx context.Context) (map[string]time.Time, error) {
	cutoff := s.Now().Add(-exclusion.Expiry).UnixMilli()
	if err := s.client.Do(ctx, radix.FlatCmd(nil, "ZREMRANGEBYSCORE", s.key, "-inf", cutoff)); err != nil {
		return nil, fmt.Errorf("failed to prune exclusions: %w", err)
	}

	var flat []string
	if err := s.client.Do(ctx, radix.Cmd(&flat, "ZRANGE", s.key, "0", "-1", "WITHSCORES")); err != nil {
		return nil, fmt.Errorf("failed to load exclusions: %w", err)
	}
	return parseScores(flat)
}

// Append adds ids that are not members yet.
func (s *Store) Append(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ts := s.Now().UnixMilli()
	args := make([]interface{}, 0, 2+2*len(ids))
	args = append(args, s.key, "NX")
	for _, id := range ids {
		args = append(args, ts, id)
	}
	return s.client.Do(ctx, radix.FlatCmd(nil, "ZADD", args...))
}

// Shutdown closes the connection pool.
func (s *Store) Shutdown() {
	s.client.Close()
}

// parseScores turns a ZRANGE WITHSCORES reply into id -> time.
func parseScores(flat []string) (map[string]time.Time, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("unexpected reply length %d", len(flat))
	}
	out := make(map[string]time.Time, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		ms, err := strconv.ParseFloat(flat[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score for %s: %w", flat[i], err)
		}
		out[flat[i]] = time.UnixMilli(int64(ms))
	}
	return out, nil
}
