package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

// quick is a config with no meaningful delays, for tests.
var quick = Config{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     5 * time.Millisecond,
	Multiplier:   2.0,
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds on first attempt", func(t *testing.T) {
		calls := 0
		result, err := WithRetry(context.Background(), quick,
			func(error) bool { return true },
			func() (string, error) {
				calls++
				return "success", nil
			},
		)

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if result != "success" {
			t.Errorf("expected 'success', got %s", result)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("retries on retryable error", func(t *testing.T) {
		calls := 0
		result, err := WithRetry(context.Background(), quick,
			func(error) bool { return true },
			func() (string, error) {
				calls++
				if calls < 3 {
					return "", errTransient
				}
				return "success", nil
			},
		)

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if result != "success" {
			t.Errorf("expected 'success', got %s", result)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("respects max attempts", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), quick,
			func(error) bool { return true },
			func() (string, error) {
				calls++
				return "", errTransient
			},
		)

		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, errTransient) {
			t.Errorf("expected wrapped transient error, got %v", err)
		}
		if calls != quick.MaxAttempts {
			t.Errorf("expected %d calls, got %d", quick.MaxAttempts, calls)
		}
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		terminal := errors.New("terminal")
		calls := 0
		_, err := WithRetry(context.Background(), quick,
			func(err error) bool { return !errors.Is(err, terminal) },
			func() (string, error) {
				calls++
				return "", terminal
			},
		)

		if !errors.Is(err, terminal) {
			t.Errorf("expected terminal error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := WithRetry(ctx, quick,
			func(error) bool { return true },
			func() (string, error) {
				calls++
				return "", errTransient
			},
		)

		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if calls != 0 {
			t.Errorf("expected 0 calls after cancellation, got %d", calls)
		}
	})

	t.Run("delay is capped at max", func(t *testing.T) {
		config := Config{
			MaxAttempts:  4,
			InitialDelay: time.Millisecond,
			MaxDelay:     2 * time.Millisecond,
			Multiplier:   10.0,
		}

		start := time.Now()
		calls := 0
		_, _ = WithRetry(context.Background(), config,
			func(error) bool { return true },
			func() (int, error) {
				calls++
				return 0, errTransient
			},
		)

		// Three sleeps, each at most MaxDelay plus scheduling slack.
		if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
			t.Errorf("backoff not capped: took %v", elapsed)
		}
		if calls != 4 {
			t.Errorf("expected 4 calls, got %d", calls)
		}
	})
}
