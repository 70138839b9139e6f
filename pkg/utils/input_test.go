package utils

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestDragTrackerInitialState(t *testing.T) {
	d := NewDragTracker(ebiten.MouseButtonRight)

	if d.GetState() != DragStateNone {
		t.Errorf("Expected initial state to be DragStateNone, got %v", d.GetState())
	}
	if d.IsDragging() {
		t.Error("Expected IsDragging to be false initially")
	}
}

func TestDragTrackerStateTransitions(t *testing.T) {
	d := NewDragTracker(ebiten.MouseButtonRight)

	steps := []struct {
		pressed bool
		x, y    int
		state   DragState
		dx, dy  int
	}{
		{false, 0, 0, DragStateNone, 0, 0},
		{true, 100, 200, DragStateStarted, 0, 0},
		{true, 110, 190, DragStateDragging, 10, -10},
		{true, 130, 190, DragStateDragging, 20, 0},
		{false, 130, 190, DragStateEnded, 0, 0},
		{false, 130, 190, DragStateNone, 0, 0},
	}
	for i, s := range steps {
		d.Step(s.pressed, s.x, s.y)
		if d.GetState() != s.state {
			t.Fatalf("step %d: expected state %v, got %v", i, s.state, d.GetState())
		}
		if dx, dy := d.Delta(); dx != s.dx || dy != s.dy {
			t.Errorf("step %d: expected delta (%d, %d), got (%d, %d)", i, s.dx, s.dy, dx, dy)
		}
	}
}

func TestDragTrackerGetDragDistance(t *testing.T) {
	d := NewDragTracker(ebiten.MouseButtonRight)
	d.Step(true, 100, 200)
	d.Step(true, 150, 280)

	dx, dy := d.GetDragDistance()
	if dx != 50 || dy != 80 {
		t.Errorf("Expected drag distance (50, 80), got (%d, %d)", dx, dy)
	}
}

func TestDragTrackerRestartAfterEnd(t *testing.T) {
	d := NewDragTracker(ebiten.MouseButtonRight)
	d.Step(true, 0, 0)
	d.Step(false, 0, 0)
	// 结束后的下一帧立即按下，应开始新的拖拽
	d.Step(true, 40, 60)

	if d.GetState() != DragStateStarted {
		t.Fatalf("Expected a new drag to start, got %v", d.GetState())
	}
	info := d.GetInfo()
	if info.StartX != 40 || info.StartY != 60 {
		t.Errorf("Expected start (40, 60), got (%d, %d)", info.StartX, info.StartY)
	}
}

func TestDragTrackerReset(t *testing.T) {
	d := NewDragTracker(ebiten.MouseButtonRight)
	d.Step(true, 10, 20)
	d.Step(true, 30, 40)
	d.Reset()

	info := d.GetInfo()
	if info.State != DragStateNone || info.StartX != 0 || info.CurrentY != 0 {
		t.Errorf("Expected zeroed drag info after reset, got %+v", info)
	}
}
