package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
)

// Kind classifies a provider failure into one of the three categories the
// bot layer reports to users.
type Kind string

const (
	// KindRateLimit means the provider signalled quota exhaustion.
	KindRateLimit Kind = "rate_limit"

	// KindTimeout means a bounded wait exceeded its deadline.
	KindTimeout Kind = "timeout"

	// KindService covers every other provider failure, including runs that
	// end in an unexpected terminal state.
	KindService Kind = "service"
)

// Fault is a classified provider failure.
type Fault struct {
	Kind Kind
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("assistant: %s fault: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// KindOf returns the fault kind of err. Errors that never went through
// classification count as service faults.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindService
}

// classify wraps err in a [Fault]. Structured information wins: the typed
// OpenAI API error and context deadline errors are checked first, and the
// lowercased-substring match on the error text is kept only as a fallback
// for failures that surface without a status code. The substring heuristic
// can misclassify unrelated errors that happen to mention rate limits; it
// stays isolated here so callers never depend on it directly.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return err
	}

	var apierr *openai.Error
	if errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests {
		return &Fault{Kind: KindRateLimit, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Fault{Kind: KindTimeout, Err: err}
	}

	text := strings.ToLower(err.Error())
	if strings.Contains(text, "rate_limit") || strings.Contains(text, "too many requests") {
		return &Fault{Kind: KindRateLimit, Err: err}
	}

	return &Fault{Kind: KindService, Err: err}
}
