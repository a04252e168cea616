package vmath

import (
	"math"
)

// GridTraverser is a zero-allocation iterator for Supercover DDA grid traversal
// Cell (x, y) covers [x, x+1) × [y, y+1) in float coordinates
type GridTraverser struct {
	currX, currY     int
	targetX, targetY int
	stepX, stepY     int

	tMaxX, tMaxY     float64
	tDeltaX, tDeltaY float64

	started bool
	done    bool
}

// NewGridTraverser creates an iterator over every cell crossed by the segment a→b
func NewGridTraverser(a, b Vec2) GridTraverser {
	ix, iy := cell(a.X), cell(a.Y)

	t := GridTraverser{
		currX: ix, currY: iy,
		targetX: cell(b.X), targetY: cell(b.Y),
		stepX: 1, stepY: 1,
	}

	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx < 0 {
		t.stepX = -1
		dx = -dx
	}
	if dy < 0 {
		t.stepY = -1
		dy = -dy
	}

	// Non-finite input degenerates to a single cell
	if !IsFinite(dx) || !IsFinite(dy) {
		t.targetX, t.targetY = ix, iy
	}

	fracX := a.X - math.Floor(a.X)
	fracY := a.Y - math.Floor(a.Y)

	if dx == 0 {
		t.tMaxX = math.Inf(1)
	} else {
		t.tDeltaX = 1 / dx
		if t.stepX > 0 {
			t.tMaxX = (1 - fracX) * t.tDeltaX
		} else {
			t.tMaxX = fracX * t.tDeltaX
		}
	}

	if dy == 0 {
		t.tMaxY = math.Inf(1)
	} else {
		t.tDeltaY = 1 / dy
		if t.stepY > 0 {
			t.tMaxY = (1 - fracY) * t.tDeltaY
		} else {
			t.tMaxY = fracY * t.tDeltaY
		}
	}

	return t
}

// Next advances the traverser to the next cell
// Returns true if a valid cell is available via Pos()
func (t *GridTraverser) Next() bool {
	if t.done {
		return false
	}
	if !t.started {
		t.started = true
		return true
	}

	if t.currX == t.targetX && t.currY == t.targetY {
		t.done = true
		return false
	}

	if t.tMaxX < t.tMaxY {
		if t.currX != t.targetX {
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		} else {
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		}
	} else if t.tMaxX > t.tMaxY {
		if t.currY != t.targetY {
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		} else {
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		}
	} else {
		if t.currX != t.targetX {
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		}
		if t.currY != t.targetY {
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		}
	}

	return true
}

// Pos returns the current grid coordinates
func (t *GridTraverser) Pos() (int, int) {
	return t.currX, t.currY
}

// Traverse visits every cell intersected by a→b until callback returns false
func Traverse(a, b Vec2, callback func(x, y int) bool) {
	t := NewGridTraverser(a, b)
	for t.Next() {
		if !callback(t.Pos()) {
			return
		}
	}
}

// cell floors a float coordinate to its cell index, clamping non-finite values to 0
func cell(f float64) int {
	if !IsFinite(f) {
		return 0
	}
	const limit = 1 << 30
	if f > limit {
		return limit
	}
	if f < -limit {
		return -limit
	}
	return int(math.Floor(f))
}
