package vmath

// ClosestOnSegment returns the point of segment [a, b] nearest to p
// Degenerate segments (a == b) return a
func ClosestOnSegment(a, b, p Vec2) Vec2 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// SegmentIntersectsCircle reports whether segment [a, b] touches the closed disk (center, radius)
func SegmentIntersectsCircle(a, b, center Vec2, radius float64) bool {
	q := ClosestOnSegment(a, b, center)
	return Dist2(q, center) <= radius*radius
}

// PointInCircle reports whether p lies within radius of center, boundary inclusive
func PointInCircle(p, center Vec2, radius float64) bool {
	return Dist2(p, center) <= radius*radius
}
