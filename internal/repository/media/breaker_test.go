package media

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterCatalogMetrics()
	os.Exit(m.Run())
}

type resolverFunc func(ctx context.Context, ref string) (string, error)

func (f resolverFunc) Resolve(ctx context.Context, ref string) (string, error) { return f(ctx, ref) }

func testBreakerConfig() BreakerConfig {
	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 3
	cfg.FailureThreshold = 0.5
	cfg.OpenTimeout = time.Minute
	return cfg
}

func TestGuarded_OpensOnFailures(t *testing.T) {
	calls := 0
	next := resolverFunc(func(context.Context, string) (string, error) {
		calls++
		return "", errors.New("backend down")
	})
	g := NewGuarded(next, testBreakerConfig(), zap.NewNop())

	for range 3 {
		if _, err := g.Resolve(context.Background(), "ref"); err == nil {
			t.Fatal("expected error")
		}
	}
	if g.State() != gobreaker.StateOpen {
		t.Fatalf("state = %s, want open", g.State())
	}

	_, err := g.Resolve(context.Background(), "ref")
	if !errors.Is(err, domain.ErrMediaUnavailable) {
		t.Errorf("expected ErrMediaUnavailable, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, open breaker should not reach the resolver", calls)
	}
	if err := g.Check(context.Background()); !errors.Is(err, domain.ErrMediaUnavailable) {
		t.Errorf("Check = %v", err)
	}
}

func TestGuarded_NotFoundKeepsClosed(t *testing.T) {
	next := resolverFunc(func(context.Context, string) (string, error) {
		return "", domain.ErrMediaNotFound
	})
	g := NewGuarded(next, testBreakerConfig(), zap.NewNop())

	for range 10 {
		if _, err := g.Resolve(context.Background(), "ref"); !errors.Is(err, domain.ErrMediaNotFound) {
			t.Fatalf("expected ErrMediaNotFound, got %v", err)
		}
	}
	if g.State() != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", g.State())
	}
	if err := g.Check(context.Background()); err != nil {
		t.Errorf("Check = %v", err)
	}
}

func TestGuarded_CallTimeout(t *testing.T) {
	next := resolverFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	cfg := testBreakerConfig()
	cfg.CallTimeout = 10 * time.Millisecond
	g := NewGuarded(next, cfg, zap.NewNop())

	_, err := g.Resolve(context.Background(), "ref")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestGuarded_Success(t *testing.T) {
	next := resolverFunc(func(_ context.Context, ref string) (string, error) {
		return "https://cdn/" + ref, nil
	})
	g := NewGuarded(next, testBreakerConfig(), zap.NewNop())
	got, err := g.Resolve(context.Background(), "a.jpg")
	if err != nil || got != "https://cdn/a.jpg" {
		t.Errorf("Resolve = %q, %v", got, err)
	}
}
