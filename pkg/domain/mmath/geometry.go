// 指示: miu200521358
package mmath

import "math"

// LookRotation は forward をZ軸、up をY軸寄りとする回転を返す。
// 退化入力では単位回転を返す。
func LookRotation(forward, up Vec3) Quaternion {
	z := forward.Normalized()
	if z.IsZero() {
		return NewQuaternion()
	}
	x := up.Cross(z).Normalized()
	if x.IsZero() {
		x = z.Orthogonal()
	}
	y := z.Cross(x)
	return NewQuaternionFromAxes(x, y, z)
}

// FromToOrientation は (fromForward, fromUp) の姿勢を (toForward, toUp) の姿勢へ移す回転を返す。
func FromToOrientation(fromForward, fromUp, toForward, toUp Vec3) Quaternion {
	from := LookRotation(fromForward, fromUp)
	to := LookRotation(toForward, toUp)
	return to.Muled(from.Inverted()).Normalized()
}

// Straighten は v から axis 方向成分を除いた正規化ベクトルを返す。
func Straighten(v, axis Vec3) Vec3 {
	a := axis.Normalized()
	if a.IsZero() {
		return v.Normalized()
	}
	return v.Subed(a.MuledScalar(v.Dot(a))).Normalized()
}

// LerpDot は t が正なら a→b、負なら a→c へ |t| だけ線形補間した方向を返す。
func LerpDot(a, b, c Vec3, t float64) Vec3 {
	var blended Vec3
	if t >= 0 {
		blended = a.Lerp(b, Clamp01(t))
	} else {
		blended = a.Lerp(c, Clamp01(-t))
	}
	return blended.NormalizedOr(a.Normalized())
}

// SolveLerpVec は方向 a から b へ球面上で t だけ回した方向を返す。
// 回転量は a×b 軸回りの符号付き角度で決め、反平行の場合は a に直交する軸で回す。
func SolveLerpVec(a, b Vec3, t float64) Vec3 {
	from := a.Normalized()
	to := b.Normalized()
	if from.IsZero() {
		return to
	}
	if to.IsZero() {
		return from
	}
	axis := from.Cross(to).Normalized()
	if axis.IsZero() {
		if from.Dot(to) > 0 {
			return from.Lerp(to, t).NormalizedOr(from)
		}
		axis = from.Orthogonal()
	}
	angle := SignedAngle(from, to, axis)
	return NewQuaternionFromAxisAngle(axis, angle*t).MulVec3(from).Normalized()
}

// SignedAngle は axis 回りに a から b へ回る符号付き角度(ラジアン)を返す。
func SignedAngle(a, b, axis Vec3) float64 {
	n := axis.Normalized()
	pa := Straighten(a, n)
	pb := Straighten(b, n)
	if pa.IsZero() || pb.IsZero() {
		return 0
	}
	return math.Atan2(n.Dot(pa.Cross(pb)), pa.Dot(pb))
}
