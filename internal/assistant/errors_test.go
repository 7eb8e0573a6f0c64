package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify_Kinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("run: %w", context.DeadlineExceeded), KindTimeout},
		{"rate limit substring", errors.New("openai: rate_limit_exceeded for gpt-4o"), KindRateLimit},
		{"too many requests substring", errors.New("HTTP 429 Too Many Requests"), KindRateLimit},
		{"plain failure", errors.New("connection refused"), KindService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := classify(tt.err)
			if kind := KindOf(got); kind != tt.want {
				t.Errorf("KindOf(classify(%v)) = %q, want %q", tt.err, kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error should wrap the original %v", tt.err)
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	t.Parallel()

	if got := classify(nil); got != nil {
		t.Errorf("classify(nil) = %v, want nil", got)
	}
}

func TestClassify_FaultPassesThrough(t *testing.T) {
	t.Parallel()

	orig := &Fault{Kind: KindTimeout, Err: errors.New("slow")}
	if got := classify(orig); got != error(orig) {
		t.Errorf("classify should not re-wrap an existing Fault, got %v", got)
	}
}

func TestKindOf_UnclassifiedError(t *testing.T) {
	t.Parallel()

	if kind := KindOf(errors.New("anything")); kind != KindService {
		t.Errorf("KindOf(plain error) = %q, want %q", kind, KindService)
	}
}
