package session_test

import (
	"fmt"
	"sync"
	"testing"

	"voicegram/internal/session"
)

func TestRegistry_GetSet(t *testing.T) {
	t.Parallel()

	r := session.NewRegistry()

	if _, ok := r.Get(7); ok {
		t.Fatal("Get on empty registry should report absence")
	}

	r.Set(7, "thread_abc")
	got, ok := r.Get(7)
	if !ok {
		t.Fatal("Get after Set should report presence")
	}
	if got != "thread_abc" {
		t.Errorf("Get(7) = %q, want %q", got, "thread_abc")
	}

	// Updating in place replaces the value for the same user.
	r.Set(7, "thread_def")
	if got, _ := r.Get(7); got != "thread_def" {
		t.Errorf("Get(7) after update = %q, want %q", got, "thread_def")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_IndependentUsers(t *testing.T) {
	t.Parallel()

	r := session.NewRegistry()
	r.Set(1, "thread_one")
	r.Set(2, "thread_two")

	if got, _ := r.Get(1); got != "thread_one" {
		t.Errorf("Get(1) = %q, want %q", got, "thread_one")
	}
	if got, _ := r.Get(2); got != "thread_two" {
		t.Errorf("Get(2) = %q, want %q", got, "thread_two")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := session.NewRegistry()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := int64(i % 8)
			r.Set(userID, fmt.Sprintf("thread_%d", i))
			r.Get(userID)
		}()
	}
	wg.Wait()

	if r.Len() != 8 {
		t.Errorf("Len() = %d, want 8", r.Len())
	}
}
