package physics

// State is any vector-like value RK4 can combine
// vmath.Vec2 satisfies it
type State[S any] interface {
	Add(S) S
	Scale(float64) S
}

// Derivative is the right-hand side of dy/dt = f(t, y)
type Derivative[S any] func(t float64, y S) S

// RK4 performs one classic fourth-order Runge-Kutta step of size h from (t0, y0)
//
//	k1 = f(t0, y0)
//	k2 = f(t0 + h/2, y0 + h/2*k1)
//	k3 = f(t0 + h/2, y0 + h/2*k2)
//	k4 = f(t0 + h, y0 + h*k3)
//	y1 = y0 + h/6*(k1 + 2k2 + 2k3 + k4)
func RK4[S State[S]](f Derivative[S], t0, h float64, y0 S) S {
	half := h * 0.5

	k1 := f(t0, y0)
	k2 := f(t0+half, y0.Add(k1.Scale(half)))
	k3 := f(t0+half, y0.Add(k2.Scale(half)))
	k4 := f(t0+h, y0.Add(k3.Scale(h)))

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return y0.Add(sum.Scale(h / 6))
}
