package combination

import (
	"context"
	"testing"

	"github.com/aretw0/blend/pkg/adapters/memory"
)

func TestService_LockLifecycle(t *testing.T) {
	svc := NewService(memory.NewStore())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		c, err := svc.Add(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.SetName(ctx, c.ID, "n"); err != nil {
			t.Fatal(err)
		}
		if err := svc.Delete(ctx, c.ID); err != nil {
			t.Fatal(err)
		}
	}

	if lockCount := len(svc.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
