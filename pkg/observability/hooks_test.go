package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopStageHooks{}
	s.OnStageStart(ctx, "load")
	s.OnStageComplete(ctx, "load", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

type testStageHooks struct {
	started []string
}

func (h *testStageHooks) OnStageStart(_ context.Context, stage string) {
	h.started = append(h.started, stage)
}

func (h *testStageHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Stage().(NoopStageHooks); !ok {
		t.Error("Stage() should return NoopStageHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	custom := &testStageHooks{}
	SetStageHooks(custom)
	if Stage() != custom {
		t.Error("SetStageHooks should set custom hooks")
	}

	Stage().OnStageStart(context.Background(), "stats")
	if len(custom.started) != 1 || custom.started[0] != "stats" {
		t.Errorf("custom hook not invoked: %v", custom.started)
	}

	// Nil registration keeps the previous hooks.
	SetStageHooks(nil)
	if Stage() != custom {
		t.Error("SetStageHooks(nil) should keep previous hooks")
	}

	Reset()
	if _, ok := Stage().(NoopStageHooks); !ok {
		t.Error("Reset should restore noop hooks")
	}
}
