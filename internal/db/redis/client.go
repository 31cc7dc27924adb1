// Package redis implements db.Store on rueidis for servers with the search
// module (Redis Stack, Redis 8+).
package redis

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/redis/rueidis"

	"github.com/abhichtrvd/1goli-sub001/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	defaultDialTimeout = 5 * time.Second
	readyBackoffStart  = 50 * time.Millisecond
	readyBackoffMax    = time.Second
)

// Config holds connection parameters.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	DB          int
	ClientName  string // reported in CLIENT LIST
	DialTimeout time.Duration
}

// Store implements db.Store.
type Store struct {
	client rueidis.Client

	textMu     sync.Mutex
	textProbed bool
	textSearch bool
}

// NewStore connects to the servers in cfg.Addrs.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   cfg.ClientName,
		Dialer:       net.Dialer{Timeout: dial},
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH replies are parsed as flat RESP2 arrays
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with exponential backoff until the server answers or
// timeout expires. The last ping error is reported on timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wait := readyBackoffStart
	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("database not ready after %s: %w", timeout, err)
		case <-time.After(wait):
		}
		wait = min(2*wait, readyBackoffMax)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server error whose message contains
// substr, which must be lower case.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), substr)
}
