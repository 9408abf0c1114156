package loop

import (
	"testing"
	"time"
)

func TestFrameLoopRunsInRequestOrder(t *testing.T) {
	l := NewFrameLoop()
	var got []int
	l.RequestFrame(func(time.Time) { got = append(got, 1) })
	l.RequestFrame(func(time.Time) { got = append(got, 2) })
	l.Step(time.Now())

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", got)
	}
	if l.Pending() != 0 {
		t.Fatalf("pending = %d after step", l.Pending())
	}
}

func TestFrameLoopCancel(t *testing.T) {
	l := NewFrameLoop()
	ran := false
	id := l.RequestFrame(func(time.Time) { ran = true })
	l.CancelFrame(id)
	l.CancelFrame(id) // idempotent
	l.CancelFrame(0)
	l.CancelFrame(9999)
	l.Step(time.Now())
	if ran {
		t.Fatal("cancelled callback ran")
	}
}

func TestFrameLoopCancelWithinBatch(t *testing.T) {
	l := NewFrameLoop()
	var second FrameID
	ran := false
	l.RequestFrame(func(time.Time) { l.CancelFrame(second) })
	second = l.RequestFrame(func(time.Time) { ran = true })
	l.Step(time.Now())
	if ran {
		t.Fatal("callback cancelled earlier in the batch still ran")
	}
}

func TestFrameLoopRequeueRunsNextStep(t *testing.T) {
	l := NewFrameLoop()
	calls := 0
	var fn FrameFunc
	fn = func(time.Time) {
		calls++
		l.RequestFrame(fn)
	}
	l.RequestFrame(fn)
	l.Step(time.Now())
	if calls != 1 {
		t.Fatalf("calls = %d after one step, want 1", calls)
	}
	l.Step(time.Now())
	if calls != 2 {
		t.Fatalf("calls = %d after two steps, want 2", calls)
	}
}

func TestFrameLoopPostRunsOnStep(t *testing.T) {
	l := NewFrameLoop()
	var order []string
	l.RequestFrame(func(time.Time) { order = append(order, "frame") })

	done := make(chan struct{})
	go func() {
		l.Post(func() { order = append(order, "task") })
		close(done)
	}()
	<-done

	if len(order) != 0 {
		t.Fatal("posted task ran before Step")
	}
	l.Step(time.Now())
	if len(order) != 2 || order[0] != "task" || order[1] != "frame" {
		t.Fatalf("order = %v, want [task frame]", order)
	}
}
