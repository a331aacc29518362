package embedding

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(8)
	a, err := e.EmbedBatch(context.Background(), []string{"pasta", "pasta", "sushi"})
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 3 || len(a[0]) != 8 {
		t.Fatalf("shape = %d x %d", len(a), len(a[0]))
	}
	for i := range a[0] {
		if a[0][i] != a[1][i] {
			t.Fatal("same text produced different vectors")
		}
	}
	same := true
	for i := range a[0] {
		if a[0][i] != a[2][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical vectors")
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Set("c", []float32{3}) // evicts a
	if _, ok := c.Get("a"); ok {
		t.Error("expected a evicted")
	}
	if v, ok := c.Get("b"); !ok || v[0] != 2 {
		t.Errorf("b = %v, %v", v, ok)
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(fmt.Errorf("wrapped: %w", ErrRateLimited)) {
		t.Error("rate limited should be retryable")
	}
	if !Retryable(fmt.Errorf("wrapped: %w", ErrServiceError)) {
		t.Error("service error should be retryable")
	}
	if Retryable(errors.New("missing credentials")) {
		t.Error("unknown errors are not retryable")
	}
}

func TestLimiterWait(t *testing.T) {
	// Generous budgets: Wait should return almost immediately.
	l := NewLimiter(6000, 600000)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, 100); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
}

func TestLimiterCancelled(t *testing.T) {
	l := NewLimiter(1, 0) // 1 request/min: second Wait must block
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = l.Wait(ctx, 0)
	if err := l.Wait(ctx, 0); err == nil {
		t.Error("expected context error from blocked Wait")
	}
}

func TestLimiterOversizedBatch(t *testing.T) {
	l := NewLimiter(0, 60) // burst 60 tokens
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// More tokens than the burst: capped rather than failing outright.
	if err := l.Wait(ctx, 1000); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
