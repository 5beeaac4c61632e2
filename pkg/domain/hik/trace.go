// 指示: miu200521358
package hik

import "github.com/miu200521358/mu_fbik/pkg/domain/mmath"

// TraceColor はトレース線の色。
type TraceColor struct {
	R, G, B float64
}

var (
	traceColorSpine   = TraceColor{R: 1, G: 1, B: 0}
	traceColorPrime   = TraceColor{R: 0.5, G: 0.5, B: 0.5}
	traceColorLimb    = TraceColor{R: 0, G: 1, B: 0}
	traceColorBend    = TraceColor{R: 0, G: 0.5, B: 1}
	traceColorWarning = TraceColor{R: 1, G: 0, B: 0}
)

// ITraceObserver は解決途中の診断線を受け取る。
type ITraceObserver interface {
	Trace(label string, pointA, pointB mmath.Vec3, color TraceColor)
}

// trace は観測者があれば診断線を通知する。
func (s *Solver) trace(label string, pointA, pointB mmath.Vec3, color TraceColor) {
	if s.observer == nil {
		return
	}
	s.observer.Trace(label, pointA, pointB, color)
}
